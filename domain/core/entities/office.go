package entities

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "parkwise/pkg/errors"
)

// Office is a tenant occupying exactly one floor.
type Office struct {
	ID          string
	Name        string
	BuildingID  string
	FloorNumber int
}

// NewOffice creates an office with a fresh id.
func NewOffice(name, buildingID string, floorNumber int) (*Office, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("office name cannot be empty")
	}
	if buildingID == "" {
		return nil, pkgerrors.NewValidationError("building id cannot be empty")
	}
	return &Office{
		ID:          uuid.New().String(),
		Name:        name,
		BuildingID:  buildingID,
		FloorNumber: floorNumber,
	}, nil
}
