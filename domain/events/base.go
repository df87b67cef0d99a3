package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events.
// Events describe something that has already been committed.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// SourceParkwise is the event source attached to every published event.
const SourceParkwise = "parkwise.backend"

const (
	TypeVehicleParked     = "parking.vehicle_parked"
	TypeVehicleUnparked   = "parking.vehicle_unparked"
	TypeFloorAdded        = "building.floor_added"
	TypeOfficeAssigned    = "office.assigned"
	TypeVehicleRegistered = "vehicle.registered"
)

func newBase(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// Parking Events

// VehicleParked is raised when a park transaction commits.
type VehicleParked struct {
	BaseEvent
	TicketID    string `json:"ticket_id"`
	UserID      string `json:"user_id"`
	Numberplate string `json:"numberplate"`
	BuildingID  string `json:"building_id"`
	FloorNumber int    `json:"floor_number"`
	SlotID      int    `json:"slot_id"`
	StartTime   int64  `json:"start_time"`
}

// NewVehicleParked creates a VehicleParked event
func NewVehicleParked(ticketID, userID, numberplate, buildingID string, floorNumber, slotID int, startTime int64, timestamp time.Time) VehicleParked {
	return VehicleParked{
		BaseEvent:   newBase(ticketID, TypeVehicleParked, timestamp),
		TicketID:    ticketID,
		UserID:      userID,
		Numberplate: numberplate,
		BuildingID:  buildingID,
		FloorNumber: floorNumber,
		SlotID:      slotID,
		StartTime:   startTime,
	}
}

// VehicleUnparked is raised when an unpark transaction commits.
type VehicleUnparked struct {
	BaseEvent
	TicketID    string `json:"ticket_id"`
	UserID      string `json:"user_id"`
	Numberplate string `json:"numberplate"`
	BuildingID  string `json:"building_id"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
}

// NewVehicleUnparked creates a VehicleUnparked event
func NewVehicleUnparked(ticketID, userID, numberplate, buildingID string, startTime, endTime int64, timestamp time.Time) VehicleUnparked {
	return VehicleUnparked{
		BaseEvent:   newBase(ticketID, TypeVehicleUnparked, timestamp),
		TicketID:    ticketID,
		UserID:      userID,
		Numberplate: numberplate,
		BuildingID:  buildingID,
		StartTime:   startTime,
		EndTime:     endTime,
	}
}

// Provisioning Events

// FloorAdded is raised when a floor and its slots have been provisioned.
type FloorAdded struct {
	BaseEvent
	BuildingID  string `json:"building_id"`
	FloorNumber int    `json:"floor_number"`
	TotalSlots  int    `json:"total_slots"`
}

// NewFloorAdded creates a FloorAdded event
func NewFloorAdded(buildingID string, floorNumber, totalSlots int, timestamp time.Time) FloorAdded {
	return FloorAdded{
		BaseEvent:   newBase(buildingID, TypeFloorAdded, timestamp),
		BuildingID:  buildingID,
		FloorNumber: floorNumber,
		TotalSlots:  totalSlots,
	}
}

// OfficeAssigned is raised when an office is created on a floor.
type OfficeAssigned struct {
	BaseEvent
	OfficeID    string `json:"office_id"`
	OfficeName  string `json:"office_name"`
	BuildingID  string `json:"building_id"`
	FloorNumber int    `json:"floor_number"`
}

// NewOfficeAssigned creates an OfficeAssigned event
func NewOfficeAssigned(officeID, officeName, buildingID string, floorNumber int, timestamp time.Time) OfficeAssigned {
	return OfficeAssigned{
		BaseEvent:   newBase(officeID, TypeOfficeAssigned, timestamp),
		OfficeID:    officeID,
		OfficeName:  officeName,
		BuildingID:  buildingID,
		FloorNumber: floorNumber,
	}
}

// Vehicle Events

// VehicleRegistered is raised when a vehicle is saved with its slot assignment.
type VehicleRegistered struct {
	BaseEvent
	UserID      string `json:"user_id"`
	Numberplate string `json:"numberplate"`
	VehicleType string `json:"vehicle_type"`
	BuildingID  string `json:"building_id"`
	FloorNumber int    `json:"floor_number"`
	SlotID      int    `json:"slot_id"`
}

// NewVehicleRegistered creates a VehicleRegistered event
func NewVehicleRegistered(vehicleID, userID, numberplate, vehicleType, buildingID string, floorNumber, slotID int, timestamp time.Time) VehicleRegistered {
	return VehicleRegistered{
		BaseEvent:   newBase(vehicleID, TypeVehicleRegistered, timestamp),
		UserID:      userID,
		Numberplate: numberplate,
		VehicleType: vehicleType,
		BuildingID:  buildingID,
		FloorNumber: floorNumber,
		SlotID:      slotID,
	}
}
