package entities

import (
	"strings"

	"github.com/google/uuid"

	"parkwise/domain/core/valueobjects"
	pkgerrors "parkwise/pkg/errors"
)

// Vehicle belongs to one user and, once registered, to one assigned slot that it
// shares with the user's other vehicles of the same type.
type Vehicle struct {
	ID           string
	UserID       string
	Numberplate  string
	Type         valueobjects.VehicleType
	IsParked     bool
	AssignedSlot *SlotRef
}

// NewVehicle creates an unparked, unassigned vehicle.
func NewVehicle(userID, numberplate string, vehicleType valueobjects.VehicleType) (*Vehicle, error) {
	numberplate = NormalizeNumberplate(numberplate)
	if numberplate == "" {
		return nil, pkgerrors.NewValidationError("numberplate cannot be empty")
	}
	if !vehicleType.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid vehicle type")
	}
	return &Vehicle{
		ID:          uuid.New().String(),
		UserID:      userID,
		Numberplate: numberplate,
		Type:        vehicleType,
	}, nil
}

// AssignTo binds the vehicle to a slot.
func (v *Vehicle) AssignTo(ref SlotRef) {
	v.AssignedSlot = &ref
}

// NormalizeNumberplate strips whitespace and upper-cases a plate.
func NormalizeNumberplate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}
