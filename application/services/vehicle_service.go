package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/domain/events"
	pkgerrors "parkwise/pkg/errors"
)

// VehicleService registers vehicles and assigns their slots. All vehicles of one
// type owned by a user share a single slot on the floor of the user's office.
type VehicleService struct {
	vehicles  ports.VehicleRepository
	users     ports.UserRepository
	offices   ports.OfficeRepository
	slots     ports.SlotRepository
	buildings ports.BuildingRepository
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(
	vehicles ports.VehicleRepository,
	users ports.UserRepository,
	offices ports.OfficeRepository,
	slots ports.SlotRepository,
	buildings ports.BuildingRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *VehicleService {
	return &VehicleService{
		vehicles:  vehicles,
		users:     users,
		offices:   offices,
		slots:     slots,
		buildings: buildings,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// GetVehicles lists the user's vehicles with their assigned slot.
func (s *VehicleService) GetVehicles(ctx context.Context, userID string) ([]dto.VehicleResponse, error) {
	vehicles, err := s.vehicles.GetVehiclesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := newBuildingNames(s.buildings)
	out := make([]dto.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		resp, err := s.toResponse(ctx, v, names)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// AddVehicle registers a vehicle. It reuses the slot of a sibling of the same
// type when there is one, otherwise it claims a free slot of that type on the
// office floor, moving on to the next candidate when a claim loses a race.
func (s *VehicleService) AddVehicle(ctx context.Context, userID string, req dto.AddVehicleRequest) (resp *dto.VehicleResponse, err error) {
	defer recordOperation(ctx, s.metrics, "AddVehicle", time.Now(), &err)

	vehicleType, err := valueobjects.ParseVehicleType(req.VehicleType)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	vehicle, err := entities.NewVehicle(userID, req.Numberplate, vehicleType)
	if err != nil {
		return nil, err
	}

	owned, err := s.vehicles.GetVehiclesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var sibling *entities.Vehicle
	for _, v := range owned {
		if v.Numberplate == vehicle.Numberplate {
			return nil, pkgerrors.NewConflictError("vehicle already registered")
		}
		if v.Type == vehicle.Type && v.AssignedSlot != nil && sibling == nil {
			sibling = v
		}
	}

	registered := false
	if sibling != nil {
		vehicle.AssignTo(*sibling.AssignedSlot)
		err = s.vehicles.RegisterVehicle(ctx, vehicle, ports.ShareAssignedSlot)
		switch {
		case err == nil:
			registered = true
		case errors.Is(err, entities.ErrSlotUnavailable):
			// The sibling's slot was released meanwhile; claim a new one.
			vehicle.AssignedSlot = nil
		default:
			return nil, err
		}
	}
	if !registered {
		if err := s.claimSlot(ctx, vehicle); err != nil {
			return nil, err
		}
	}

	ref := vehicle.AssignedSlot
	publishEvent(ctx, s.publisher, s.logger, events.NewVehicleRegistered(
		vehicle.ID, userID, vehicle.Numberplate, vehicle.Type.String(),
		ref.BuildingID, ref.FloorNumber, ref.SlotID, s.now(),
	))

	out, err := s.toResponse(ctx, vehicle, newBuildingNames(s.buildings))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *VehicleService) claimSlot(ctx context.Context, vehicle *entities.Vehicle) error {
	user, err := s.users.GetByID(ctx, vehicle.UserID)
	if err != nil {
		return err
	}
	office, err := s.offices.GetOfficeByID(ctx, user.OfficeID)
	if err != nil {
		return err
	}
	free, err := s.slots.GetFreeSlotsByFloor(ctx, office.BuildingID, office.FloorNumber)
	if err != nil {
		return err
	}

	for _, slot := range free {
		if slot.Type != vehicle.Type {
			continue
		}
		vehicle.AssignTo(slot.Ref())
		err := s.vehicles.RegisterVehicle(ctx, vehicle, ports.ClaimFreeSlot)
		if err == nil {
			return nil
		}
		if !errors.Is(err, entities.ErrSlotUnavailable) {
			return err
		}
		s.logger.Debug("Slot claimed concurrently, trying next",
			zap.String("buildingID", slot.BuildingID),
			zap.Int("floorNumber", slot.FloorNumber),
			zap.Int("slotID", slot.SlotID),
		)
	}
	vehicle.AssignedSlot = nil
	return pkgerrors.NewConflictError("no free slot available")
}

// DeleteVehicle removes a vehicle that is not parked.
func (s *VehicleService) DeleteVehicle(ctx context.Context, userID, numberplate string) (err error) {
	defer recordOperation(ctx, s.metrics, "DeleteVehicle", time.Now(), &err)
	return s.vehicles.DeleteVehicle(ctx, userID, numberplate)
}

func (s *VehicleService) toResponse(ctx context.Context, v *entities.Vehicle, names *buildingNames) (dto.VehicleResponse, error) {
	resp := dto.VehicleResponse{
		Numberplate:          v.Numberplate,
		VehicleType:          v.Type.String(),
		IsParked:             v.IsParked,
		AssignedBuildingID:   dto.Unassigned,
		AssignedBuildingName: dto.Unassigned,
	}
	if v.AssignedSlot == nil {
		return resp, nil
	}

	name, err := names.lookup(ctx, v.AssignedSlot.BuildingID)
	if err != nil {
		return dto.VehicleResponse{}, err
	}
	resp.AssignedBuildingID = v.AssignedSlot.BuildingID
	resp.AssignedBuildingName = name
	resp.AssignedFloorNumber = v.AssignedSlot.FloorNumber
	resp.AssignedSlotNumber = v.AssignedSlot.SlotID
	return resp, nil
}
