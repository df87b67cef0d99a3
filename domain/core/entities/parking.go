package entities

import (
	"time"

	"github.com/google/uuid"

	"parkwise/domain/core/valueobjects"
)

// ParkingRecord is one stay of a vehicle in its assigned slot. EndTime is nil
// while the vehicle is still parked. Times are Unix seconds.
type ParkingRecord struct {
	ID          string
	UserID      string
	Numberplate string
	BuildingID  string
	FloorNumber int
	SlotID      int
	StartTime   int64
	EndTime     *int64
	VehicleType valueobjects.VehicleType
}

// NewParkingRecord opens a record for v in its assigned slot.
func NewParkingRecord(v *Vehicle, start time.Time) *ParkingRecord {
	r := &ParkingRecord{
		ID:          uuid.New().String(),
		UserID:      v.UserID,
		Numberplate: v.Numberplate,
		StartTime:   start.Unix(),
		VehicleType: v.Type,
	}
	if v.AssignedSlot != nil {
		r.BuildingID = v.AssignedSlot.BuildingID
		r.FloorNumber = v.AssignedSlot.FloorNumber
		r.SlotID = v.AssignedSlot.SlotID
	}
	return r
}

// IsActive reports whether the vehicle is still parked.
func (r ParkingRecord) IsActive() bool {
	return r.EndTime == nil
}

// Slot returns the slot the record refers to.
func (r ParkingRecord) Slot() SlotRef {
	return SlotRef{BuildingID: r.BuildingID, FloorNumber: r.FloorNumber, SlotID: r.SlotID}
}

// ClosingTime returns the end time to record when closing at now. It never
// precedes the start.
func (r ParkingRecord) ClosingTime(now time.Time) int64 {
	end := now.Unix()
	if end < r.StartTime {
		return r.StartTime
	}
	return end
}
