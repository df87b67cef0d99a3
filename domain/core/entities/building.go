package entities

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "parkwise/pkg/errors"
)

// Building is the root of the parking hierarchy. Its counters are the sums of
// its floors' counters.
type Building struct {
	ID             string
	Name           string
	TotalFloors    int
	TotalSlots     int
	AvailableSlots int
}

// NewBuilding creates an empty building with a fresh id.
func NewBuilding(name string) (*Building, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("building name cannot be empty")
	}
	return &Building{
		ID:   uuid.New().String(),
		Name: name,
	}, nil
}

// Floor is one level of a building with its own slot counters.
type Floor struct {
	BuildingID     string
	FloorNumber    int
	TotalSlots     int
	AvailableSlots int
	// OfficeID is empty when no office occupies the floor.
	OfficeID string
}

// HasOffice reports whether an office is assigned to the floor.
func (f Floor) HasOffice() bool {
	return f.OfficeID != ""
}
