package entities

import "parkwise/domain/core/valueobjects"

// Slot is a single parking space.
//
// IsAssigned is the long-lived binding to a user's vehicles of the slot's type;
// IsOccupied is true only while a vehicle is parked in it. AssignedCount is the
// number of vehicles bound to the slot; it is zero exactly when IsAssigned is false.
type Slot struct {
	BuildingID    string
	FloorNumber   int
	SlotID        int
	Type          valueobjects.VehicleType
	IsAssigned    bool
	AssignedCount int
	IsOccupied    bool
	OccupiedBy    *Occupant
}

// Ref returns the slot's address.
func (s Slot) Ref() SlotRef {
	return SlotRef{BuildingID: s.BuildingID, FloorNumber: s.FloorNumber, SlotID: s.SlotID}
}

// Occupant is the snapshot stored on a slot while it is occupied.
type Occupant struct {
	Username    string
	Numberplate string
	Email       string
	StartTime   int64
}

// SlotRef addresses a slot.
type SlotRef struct {
	BuildingID  string
	FloorNumber int
	SlotID      int
}
