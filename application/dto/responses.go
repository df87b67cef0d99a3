package dto

import (
	"time"

	"parkwise/domain/core/entities"
)

// Unassigned fills vehicle fields that have no slot yet.
const Unassigned = "unassigned"

// MessageResponse acknowledges a write without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	JWT string `json:"jwt"`
}

// TicketResponse is returned by a successful park.
type TicketResponse struct {
	TicketID string `json:"ticketId"`
}

type BuildingResponse struct {
	BuildingID     string `json:"buildingId"`
	Name           string `json:"name"`
	TotalFloors    int    `json:"totalFloors"`
	TotalSlots     int    `json:"totalSlots"`
	AvailableSlots int    `json:"availableSlots"`
}

// NewBuildingResponse maps a building.
func NewBuildingResponse(b *entities.Building) BuildingResponse {
	return BuildingResponse{
		BuildingID:     b.ID,
		Name:           b.Name,
		TotalFloors:    b.TotalFloors,
		TotalSlots:     b.TotalSlots,
		AvailableSlots: b.AvailableSlots,
	}
}

type FloorResponse struct {
	BuildingID     string  `json:"buildingId"`
	FloorNumber    int     `json:"floorNumber"`
	TotalSlots     int     `json:"totalSlots"`
	AvailableSlots int     `json:"availableSlots"`
	AssignedOffice *string `json:"assignedOffice"`
}

type SlotResponse struct {
	SlotID      int     `json:"slotId"`
	SlotType    string  `json:"slotType"`
	IsAssigned  bool    `json:"isAssigned"`
	IsOccupied  bool    `json:"isOccupied"`
	Numberplate *string `json:"numberplate,omitempty"`
	Username    *string `json:"username,omitempty"`
	ParkedAt    *string `json:"parkedAt,omitempty"`
}

// NewSlotResponse maps a slot with its parking status.
func NewSlotResponse(s *entities.Slot) SlotResponse {
	resp := SlotResponse{
		SlotID:     s.SlotID,
		SlotType:   s.Type.String(),
		IsAssigned: s.IsAssigned,
		IsOccupied: s.IsOccupied,
	}
	if s.OccupiedBy != nil {
		resp.Numberplate = &s.OccupiedBy.Numberplate
		resp.Username = &s.OccupiedBy.Username
		resp.ParkedAt = FormatTimestamp(&s.OccupiedBy.StartTime)
	}
	return resp
}

type OfficeResponse struct {
	OfficeID    string `json:"officeId"`
	OfficeName  string `json:"officeName"`
	BuildingID  string `json:"buildingId"`
	FloorNumber int    `json:"floorNumber"`
}

// NewOfficeResponse maps an office.
func NewOfficeResponse(o *entities.Office) OfficeResponse {
	return OfficeResponse{
		OfficeID:    o.ID,
		OfficeName:  o.Name,
		BuildingID:  o.BuildingID,
		FloorNumber: o.FloorNumber,
	}
}

type VehicleResponse struct {
	Numberplate          string `json:"numberplate"`
	VehicleType          string `json:"vehicleType"`
	IsParked             bool   `json:"isParked"`
	AssignedBuildingID   string `json:"assignedBuildingId"`
	AssignedBuildingName string `json:"assignedBuildingName"`
	AssignedFloorNumber  int    `json:"assignedFloorNumber"`
	AssignedSlotNumber   int    `json:"assignedSlotNumber"`
}

// ParkingResponse is one entry of a user's parking history.
type ParkingResponse struct {
	TicketID     string  `json:"ticketId"`
	Numberplate  string  `json:"numberplate"`
	BuildingID   string  `json:"buildingId"`
	BuildingName string  `json:"buildingName"`
	FloorNumber  int     `json:"floorNumber"`
	SlotNumber   int     `json:"slotNumber"`
	StartTime    string  `json:"startTime"`
	EndTime      *string `json:"endTime"`
	VehicleType  string  `json:"vehicleType"`
}

type BillLineResponse struct {
	TicketID     string  `json:"ticketId"`
	Numberplate  string  `json:"numberplate"`
	BuildingID   string  `json:"buildingId"`
	BuildingName string  `json:"buildingName"`
	FloorNumber  int     `json:"floorNumber"`
	SlotNumber   int     `json:"slotNumber"`
	StartTime    string  `json:"startTime"`
	EndTime      *string `json:"endTime"`
	VehicleType  string  `json:"vehicleType"`
}

type BillResponse struct {
	UserID         string             `json:"userId"`
	UserEmail      string             `json:"userEmail"`
	BillingMonth   int                `json:"billingMonth"`
	BillingYear    int                `json:"billingYear"`
	TotalAmount    float64            `json:"totalAmount"`
	BillDate       string             `json:"billDate"`
	ParkingHistory []BillLineResponse `json:"parkingHistory"`
}

// FormatTimestamp renders Unix seconds as ISO-8601 UTC with a Z suffix. A nil
// timestamp stays nil.
func FormatTimestamp(ts *int64) *string {
	if ts == nil {
		return nil
	}
	s := time.Unix(*ts, 0).UTC().Format(time.RFC3339)
	return &s
}
