package ports

import (
	"context"
	"time"

	"parkwise/domain/core/entities"
)

// Repository errors are *pkgerrors.AppError values: NotFound for missing items,
// Conflict for failed conditions and canceled transactions, Database or
// Unavailable for store failures. Repositories never retry.

// BuildingRepository persists the building registry.
type BuildingRepository interface {
	// AddBuilding fails with Conflict when the id is taken.
	AddBuilding(ctx context.Context, building *entities.Building) error
	GetBuildingByID(ctx context.Context, buildingID string) (*entities.Building, error)
	GetBuildings(ctx context.Context) ([]*entities.Building, error)
}

// FloorRepository provisions floors together with their slots.
type FloorRepository interface {
	// AddFloor writes the floor, its slots and the building counters as one unit.
	AddFloor(ctx context.Context, buildingID string, floorNumber int) (*entities.Floor, error)
	GetFloor(ctx context.Context, buildingID string, floorNumber int) (*entities.Floor, error)
	// GetFloors returns floors in key order.
	GetFloors(ctx context.Context, buildingID string) ([]*entities.Floor, error)
}

// SlotRepository reads and updates slots. It never touches counters.
type SlotRepository interface {
	// GetSlotsByFloor returns slots ordered by slot id.
	GetSlotsByFloor(ctx context.Context, buildingID string, floorNumber int) ([]*entities.Slot, error)
	// GetFreeSlotsByFloor returns the slots not yet assigned to any vehicle.
	GetFreeSlotsByFloor(ctx context.Context, buildingID string, floorNumber int) ([]*entities.Slot, error)
	UpdateSlot(ctx context.Context, slot *entities.Slot) error
	// UpdateSlotOccupancy marks the slot occupied by occupant, or free when occupant is nil.
	UpdateSlotOccupancy(ctx context.Context, ref entities.SlotRef, occupant *entities.Occupant) error
}

// OfficeRepository persists offices and their floor links.
type OfficeRepository interface {
	// AddOffice creates the office and links it to its floor atomically.
	AddOffice(ctx context.Context, office *entities.Office) error
	GetOfficeByID(ctx context.Context, officeID string) (*entities.Office, error)
	GetOffices(ctx context.Context) ([]*entities.Office, error)
	// DeleteOffice removes the office and unlinks its floor atomically.
	DeleteOffice(ctx context.Context, officeID string) error
}

// UserRepository persists accounts and the email uniqueness index.
type UserRepository interface {
	// SaveUser fails with Conflict when the email or id is taken.
	SaveUser(ctx context.Context, user *entities.User) error
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByID(ctx context.Context, userID string) (*entities.User, error)
}

// SlotAssignment selects how RegisterVehicle binds the vehicle's slot.
type SlotAssignment int

const (
	// ClaimFreeSlot marks the slot assigned; it must be unassigned.
	ClaimFreeSlot SlotAssignment = iota
	// ShareAssignedSlot reuses a slot already assigned to a sibling vehicle.
	ShareAssignedSlot
)

// VehicleRepository persists vehicles and their slot assignments.
type VehicleRepository interface {
	GetVehicle(ctx context.Context, userID, numberplate string) (*entities.Vehicle, error)
	GetVehiclesByUser(ctx context.Context, userID string) ([]*entities.Vehicle, error)
	// RegisterVehicle saves vehicle bound to vehicle.AssignedSlot. With ClaimFreeSlot a
	// lost race surfaces as a Conflict wrapping entities.ErrSlotUnavailable.
	RegisterVehicle(ctx context.Context, vehicle *entities.Vehicle, assignment SlotAssignment) error
	// DeleteVehicle removes an unparked vehicle and releases its slot when it held
	// the slot's last binding.
	DeleteVehicle(ctx context.Context, userID, numberplate string) error
}

// ParkingRepository runs the park/unpark state machine.
type ParkingRepository interface {
	// Park occupies the record's slot and opens the record.
	Park(ctx context.Context, record *entities.ParkingRecord) error
	// UnparkByNumberplate closes the earliest open record for the plate at now and
	// frees its slot. It returns the closed record.
	UnparkByNumberplate(ctx context.Context, userID, numberplate string, now time.Time) (*entities.ParkingRecord, error)
	// GetParkingHistory returns records started within [start, end] in ascending order.
	GetParkingHistory(ctx context.Context, userID string, start, end int64, closedOnly bool) ([]*entities.ParkingRecord, error)
}

// BillingRepository reads generated bills.
type BillingRepository interface {
	GetBill(ctx context.Context, userID string, month, year int) (*entities.Bill, error)
}
