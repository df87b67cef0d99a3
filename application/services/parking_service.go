package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/domain/events"
	pkgerrors "parkwise/pkg/errors"
)

// ParkingService parks and unparks vehicles in their assigned slots.
type ParkingService struct {
	parkings  ports.ParkingRepository
	vehicles  ports.VehicleRepository
	buildings ports.BuildingRepository
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewParkingService creates a new parking service
func NewParkingService(
	parkings ports.ParkingRepository,
	vehicles ports.VehicleRepository,
	buildings ports.BuildingRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *ParkingService {
	return &ParkingService{
		parkings:  parkings,
		vehicles:  vehicles,
		buildings: buildings,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Park opens a parking record for the vehicle in its assigned slot and returns
// the ticket id.
func (s *ParkingService) Park(ctx context.Context, userID string, req dto.ParkRequest) (resp *dto.TicketResponse, err error) {
	defer recordOperation(ctx, s.metrics, "Park", time.Now(), &err)

	vehicle, err := s.vehicles.GetVehicle(ctx, userID, req.Numberplate)
	if pkgerrors.IsNotFound(err) {
		return nil, pkgerrors.NewNotFoundError("Vehicle not found")
	}
	if err != nil {
		return nil, err
	}
	if vehicle.AssignedSlot == nil {
		return nil, pkgerrors.NewConflictError("Vehicle is not assigned a slot")
	}

	record := entities.NewParkingRecord(vehicle, s.now())
	if err := s.parkings.Park(ctx, record); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, s.logger, events.NewVehicleParked(
		record.ID, userID, record.Numberplate,
		record.BuildingID, record.FloorNumber, record.SlotID,
		record.StartTime, s.now(),
	))

	return &dto.TicketResponse{TicketID: record.ID}, nil
}

// Unpark closes the vehicle's active parking record and frees its slot.
func (s *ParkingService) Unpark(ctx context.Context, userID, numberplate string) (resp *dto.ParkingResponse, err error) {
	defer recordOperation(ctx, s.metrics, "Unpark", time.Now(), &err)

	if entities.NormalizeNumberplate(numberplate) == "" {
		return nil, pkgerrors.NewValidationError("numberplate cannot be empty")
	}
	now := s.now()
	record, err := s.parkings.UnparkByNumberplate(ctx, userID, numberplate, now)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, s.logger, events.NewVehicleUnparked(
		record.ID, userID, record.Numberplate, record.BuildingID,
		record.StartTime, *record.EndTime, now,
	))

	out, err := s.toResponse(ctx, record, newBuildingNames(s.buildings))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetParkings returns the user's parking history, newest first. A missing start
// means the beginning of time; a missing end means now.
func (s *ParkingService) GetParkings(ctx context.Context, userID string, q dto.HistoryQuery) ([]dto.ParkingResponse, error) {
	var start, end int64 = 0, s.now().Unix()
	if q.StartTime != nil {
		start = *q.StartTime
	}
	if q.EndTime != nil {
		end = *q.EndTime
	}
	if start < 0 || end < 0 {
		return nil, pkgerrors.NewValidationError("time bounds cannot be negative")
	}
	if start > end {
		return nil, pkgerrors.NewValidationError("startTime must not be after endTime")
	}

	records, err := s.parkings.GetParkingHistory(ctx, userID, start, end, false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime > records[j].StartTime
	})

	names := newBuildingNames(s.buildings)
	out := make([]dto.ParkingResponse, 0, len(records))
	for _, r := range records {
		resp, err := s.toResponse(ctx, r, names)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *ParkingService) toResponse(ctx context.Context, r *entities.ParkingRecord, names *buildingNames) (dto.ParkingResponse, error) {
	name, err := names.lookup(ctx, r.BuildingID)
	if err != nil {
		return dto.ParkingResponse{}, err
	}
	return dto.ParkingResponse{
		TicketID:     r.ID,
		Numberplate:  r.Numberplate,
		BuildingID:   r.BuildingID,
		BuildingName: name,
		FloorNumber:  r.FloorNumber,
		SlotNumber:   r.SlotID,
		StartTime:    *dto.FormatTimestamp(&r.StartTime),
		EndTime:      dto.FormatTimestamp(r.EndTime),
		VehicleType:  r.VehicleType.String(),
	}, nil
}
