package services

import (
	"context"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/application/ports"
	pkgerrors "parkwise/pkg/errors"
)

// BillingService reads monthly bills generated elsewhere.
type BillingService struct {
	bills     ports.BillingRepository
	buildings ports.BuildingRepository
	logger    *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(bills ports.BillingRepository, buildings ports.BuildingRepository, logger *zap.Logger) *BillingService {
	return &BillingService{bills: bills, buildings: buildings, logger: logger}
}

// GetBill returns the user's bill for month/year with building names resolved.
func (s *BillingService) GetBill(ctx context.Context, userID, email string, month, year int) (*dto.BillResponse, error) {
	if month < 1 || month > 12 {
		return nil, pkgerrors.NewValidationError("month must be between 1 and 12")
	}
	if year < 2000 || year > 9999 {
		return nil, pkgerrors.NewValidationError("year is out of range")
	}

	bill, err := s.bills.GetBill(ctx, userID, month, year)
	if pkgerrors.IsNotFound(err) {
		return nil, pkgerrors.NewNotFoundError("Bill not generated for this month")
	}
	if err != nil {
		return nil, err
	}

	names := newBuildingNames(s.buildings)
	history := make([]dto.BillLineResponse, 0, len(bill.History))
	for _, line := range bill.History {
		name := line.BuildingName
		if name == "" {
			name, err = names.lookup(ctx, line.BuildingID)
			if err != nil {
				return nil, err
			}
		}
		start, end := line.StartTime, line.EndTime
		history = append(history, dto.BillLineResponse{
			TicketID:     line.TicketID,
			Numberplate:  line.Numberplate,
			BuildingID:   line.BuildingID,
			BuildingName: name,
			FloorNumber:  line.FloorNumber,
			SlotNumber:   line.SlotNumber,
			StartTime:    *dto.FormatTimestamp(&start),
			EndTime:      dto.FormatTimestamp(&end),
			VehicleType:  line.VehicleType,
		})
	}

	s.logger.Debug("Bill retrieved", zap.String("userID", userID), zap.Int("month", month), zap.Int("year", year))
	return &dto.BillResponse{
		UserID:         userID,
		UserEmail:      email,
		BillingMonth:   bill.Month,
		BillingYear:    bill.Year,
		TotalAmount:    bill.TotalAmount,
		BillDate:       bill.BillDate,
		ParkingHistory: history,
	}, nil
}
