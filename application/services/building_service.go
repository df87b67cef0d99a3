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

// BuildingService provisions buildings and floors and reports their capacity.
type BuildingService struct {
	buildings ports.BuildingRepository
	floors    ports.FloorRepository
	slots     ports.SlotRepository
	offices   ports.OfficeRepository
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewBuildingService creates a new building service
func NewBuildingService(
	buildings ports.BuildingRepository,
	floors ports.FloorRepository,
	slots ports.SlotRepository,
	offices ports.OfficeRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *BuildingService {
	return &BuildingService{
		buildings: buildings,
		floors:    floors,
		slots:     slots,
		offices:   offices,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// AddBuilding registers an empty building.
func (s *BuildingService) AddBuilding(ctx context.Context, req dto.AddBuildingRequest) (resp *dto.BuildingResponse, err error) {
	defer recordOperation(ctx, s.metrics, "AddBuilding", time.Now(), &err)

	building, err := entities.NewBuilding(req.BuildingName)
	if err != nil {
		return nil, err
	}
	if err := s.buildings.AddBuilding(ctx, building); err != nil {
		return nil, err
	}

	out := dto.NewBuildingResponse(building)
	return &out, nil
}

// AddFloor provisions a floor with its slots. The building check gives a clear
// NotFound; the repository's transaction is what actually guards it.
func (s *BuildingService) AddFloor(ctx context.Context, buildingID string, req dto.AddFloorRequest) (resp *dto.FloorResponse, err error) {
	defer recordOperation(ctx, s.metrics, "AddFloor", time.Now(), &err)

	if req.FloorNumber < 0 {
		return nil, pkgerrors.NewValidationError("floor number cannot be negative")
	}
	if _, err := s.buildings.GetBuildingByID(ctx, buildingID); err != nil {
		return nil, err
	}

	floor, err := s.floors.AddFloor(ctx, buildingID, req.FloorNumber)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, s.logger,
		events.NewFloorAdded(buildingID, floor.FloorNumber, floor.TotalSlots, s.now()))

	return &dto.FloorResponse{
		BuildingID:     buildingID,
		FloorNumber:    floor.FloorNumber,
		TotalSlots:     floor.TotalSlots,
		AvailableSlots: floor.AvailableSlots,
	}, nil
}

// GetBuildings lists every building with its counters.
func (s *BuildingService) GetBuildings(ctx context.Context) ([]dto.BuildingResponse, error) {
	buildings, err := s.buildings.GetBuildings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BuildingResponse, 0, len(buildings))
	for _, b := range buildings {
		out = append(out, dto.NewBuildingResponse(b))
	}
	return out, nil
}

// GetFloors lists a building's floors with the name of the office on each.
func (s *BuildingService) GetFloors(ctx context.Context, buildingID string) ([]dto.FloorResponse, error) {
	if _, err := s.buildings.GetBuildingByID(ctx, buildingID); err != nil {
		return nil, err
	}
	floors, err := s.floors.GetFloors(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FloorResponse, 0, len(floors))
	for _, f := range floors {
		resp := dto.FloorResponse{
			BuildingID:     buildingID,
			FloorNumber:    f.FloorNumber,
			TotalSlots:     f.TotalSlots,
			AvailableSlots: f.AvailableSlots,
		}
		if f.HasOffice() {
			office, err := s.offices.GetOfficeByID(ctx, f.OfficeID)
			switch {
			case err == nil:
				resp.AssignedOffice = &office.Name
			case pkgerrors.IsNotFound(err):
				s.logger.Warn("Floor references a missing office",
					zap.String("buildingID", buildingID),
					zap.Int("floorNumber", f.FloorNumber),
					zap.String("officeID", f.OfficeID),
				)
			default:
				return nil, err
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetSlots lists a floor's slots with their parking status.
func (s *BuildingService) GetSlots(ctx context.Context, buildingID string, floorNumber int) ([]dto.SlotResponse, error) {
	if _, err := s.floors.GetFloor(ctx, buildingID, floorNumber); err != nil {
		return nil, err
	}
	slots, err := s.slots.GetSlotsByFloor(ctx, buildingID, floorNumber)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, dto.NewSlotResponse(slot))
	}
	return out, nil
}
