package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/domain/events"
	pkgerrors "parkwise/pkg/errors"
)

// OfficeService manages the office occupying each floor.
type OfficeService struct {
	offices   ports.OfficeRepository
	buildings ports.BuildingRepository
	floors    ports.FloorRepository
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewOfficeService creates a new office service
func NewOfficeService(
	offices ports.OfficeRepository,
	buildings ports.BuildingRepository,
	floors ports.FloorRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *OfficeService {
	return &OfficeService{
		offices:   offices,
		buildings: buildings,
		floors:    floors,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// AddOffice places a new office on a floor that has none.
func (s *OfficeService) AddOffice(ctx context.Context, buildingID string, req dto.AddOfficeRequest) (resp *dto.OfficeResponse, err error) {
	defer recordOperation(ctx, s.metrics, "AddOffice", time.Now(), &err)

	if _, err := s.buildings.GetBuildingByID(ctx, buildingID); err != nil {
		return nil, err
	}
	floor, err := s.floors.GetFloor(ctx, buildingID, req.FloorNumber)
	if err != nil {
		return nil, err
	}
	if floor.HasOffice() {
		return nil, pkgerrors.NewConflictError("floor already has an office")
	}

	office, err := entities.NewOffice(req.OfficeName, buildingID, req.FloorNumber)
	if err != nil {
		return nil, err
	}
	if err := s.offices.AddOffice(ctx, office); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewOfficeAssigned(office.ID, office.Name, buildingID, office.FloorNumber, s.now()))

	out := dto.NewOfficeResponse(office)
	return &out, nil
}

// GetOffices lists every office.
func (s *OfficeService) GetOffices(ctx context.Context) ([]dto.OfficeResponse, error) {
	offices, err := s.offices.GetOffices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OfficeResponse, 0, len(offices))
	for _, o := range offices {
		out = append(out, dto.NewOfficeResponse(o))
	}
	return out, nil
}

// DeleteOffice removes an office and frees its floor for another tenant.
func (s *OfficeService) DeleteOffice(ctx context.Context, officeID string) (err error) {
	defer recordOperation(ctx, s.metrics, "DeleteOffice", time.Now(), &err)
	return s.offices.DeleteOffice(ctx, officeID)
}
