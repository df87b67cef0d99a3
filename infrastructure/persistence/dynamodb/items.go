package dynamodb

import (
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/persistence/store"
)

// Attribute names referenced by conditions and updates.
const (
	attrTotalFloors    = "TotalFloors"
	attrTotalSlots     = "TotalSlots"
	attrAvailableSlots = "AvailableSlots"
	attrOfficeID       = "OfficeId"
	attrIsAssigned     = "IsAssigned"
	attrAssignedCount  = "AssignedCount"
	attrIsOccupied     = "IsOccupied"
	attrOccupiedBy     = "OccupiedBy"
	attrIsParked       = "IsParked"
	attrNumberplate    = "Numberplate"
	attrEndTime        = "EndTime"
	attrUUID           = "UUID"
)

type buildingItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	BuildingID     string `dynamodbav:"BuildingId"`
	BuildingName   string `dynamodbav:"BuildingName"`
	TotalFloors    int    `dynamodbav:"TotalFloors"`
	TotalSlots     int    `dynamodbav:"TotalSlots"`
	AvailableSlots int    `dynamodbav:"AvailableSlots"`
}

func newBuildingItem(b *entities.Building) buildingItem {
	key := BuildingKey(b.ID)
	return buildingItem{
		PK:             key.PK,
		SK:             key.SK,
		BuildingID:     b.ID,
		BuildingName:   b.Name,
		TotalFloors:    b.TotalFloors,
		TotalSlots:     b.TotalSlots,
		AvailableSlots: b.AvailableSlots,
	}
}

func (i buildingItem) toEntity() *entities.Building {
	return &entities.Building{
		ID:             i.BuildingID,
		Name:           i.BuildingName,
		TotalFloors:    i.TotalFloors,
		TotalSlots:     i.TotalSlots,
		AvailableSlots: i.AvailableSlots,
	}
}

type floorItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	BuildingID     string `dynamodbav:"BuildingId"`
	FloorNumber    int    `dynamodbav:"FloorNumber"`
	TotalSlots     int    `dynamodbav:"TotalSlots"`
	AvailableSlots int    `dynamodbav:"AvailableSlots"`
	OfficeID       string `dynamodbav:"OfficeId,omitempty"`
}

func newFloorItem(f *entities.Floor) floorItem {
	key := FloorKey(f.BuildingID, f.FloorNumber)
	return floorItem{
		PK:             key.PK,
		SK:             key.SK,
		BuildingID:     f.BuildingID,
		FloorNumber:    f.FloorNumber,
		TotalSlots:     f.TotalSlots,
		AvailableSlots: f.AvailableSlots,
		OfficeID:       f.OfficeID,
	}
}

func (i floorItem) toEntity() *entities.Floor {
	return &entities.Floor{
		BuildingID:     i.BuildingID,
		FloorNumber:    i.FloorNumber,
		TotalSlots:     i.TotalSlots,
		AvailableSlots: i.AvailableSlots,
		OfficeID:       i.OfficeID,
	}
}

type occupantItem struct {
	Username    string `dynamodbav:"Username"`
	NumberPlate string `dynamodbav:"NumberPlate"`
	Email       string `dynamodbav:"Email"`
	StartTime   int64  `dynamodbav:"StartTime"`
}

func newOccupantItem(o *entities.Occupant) *occupantItem {
	if o == nil {
		return nil
	}
	return &occupantItem{
		Username:    o.Username,
		NumberPlate: o.Numberplate,
		Email:       o.Email,
		StartTime:   o.StartTime,
	}
}

type slotItem struct {
	PK            string        `dynamodbav:"PK"`
	SK            string        `dynamodbav:"SK"`
	SlotID        int           `dynamodbav:"SlotId"`
	SlotType      string        `dynamodbav:"SlotType"`
	IsAssigned    bool          `dynamodbav:"IsAssigned"`
	AssignedCount int           `dynamodbav:"AssignedCount"`
	IsOccupied    bool          `dynamodbav:"IsOccupied"`
	OccupiedBy    *occupantItem `dynamodbav:"OccupiedBy,omitempty"`
}

func newSlotItem(s *entities.Slot) slotItem {
	key := SlotKey(s.BuildingID, s.FloorNumber, s.SlotID)
	return slotItem{
		PK:            key.PK,
		SK:            key.SK,
		SlotID:        s.SlotID,
		SlotType:      string(s.Type),
		IsAssigned:    s.IsAssigned,
		AssignedCount: s.AssignedCount,
		IsOccupied:    s.IsOccupied,
		OccupiedBy:    newOccupantItem(s.OccupiedBy),
	}
}

func (i slotItem) toEntity(buildingID string, floorNumber int) *entities.Slot {
	slot := &entities.Slot{
		BuildingID:    buildingID,
		FloorNumber:   floorNumber,
		SlotID:        i.SlotID,
		Type:          valueobjects.VehicleType(i.SlotType),
		IsAssigned:    i.IsAssigned,
		AssignedCount: i.AssignedCount,
		IsOccupied:    i.IsOccupied,
	}
	if i.OccupiedBy != nil {
		slot.OccupiedBy = &entities.Occupant{
			Username:    i.OccupiedBy.Username,
			Numberplate: i.OccupiedBy.NumberPlate,
			Email:       i.OccupiedBy.Email,
			StartTime:   i.OccupiedBy.StartTime,
		}
	}
	return slot
}

type officeItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	OfficeID    string `dynamodbav:"OfficeId"`
	OfficeName  string `dynamodbav:"OfficeName"`
	BuildingID  string `dynamodbav:"BuildingId"`
	FloorNumber int    `dynamodbav:"FloorNumber"`
}

func newOfficeItem(o *entities.Office) officeItem {
	key := OfficeKey(o.ID)
	return officeItem{
		PK:          key.PK,
		SK:          key.SK,
		OfficeID:    o.ID,
		OfficeName:  o.Name,
		BuildingID:  o.BuildingID,
		FloorNumber: o.FloorNumber,
	}
}

func (i officeItem) toEntity() *entities.Office {
	return &entities.Office{
		ID:          i.OfficeID,
		Name:        i.OfficeName,
		BuildingID:  i.BuildingID,
		FloorNumber: i.FloorNumber,
	}
}

type emailIndexItem struct {
	PK   string `dynamodbav:"PK"`
	SK   string `dynamodbav:"SK"`
	UUID string `dynamodbav:"UUID"`
}

type profileItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	ID           string `dynamodbav:"Id"`
	Username     string `dynamodbav:"Username"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	Email        string `dynamodbav:"Email"`
	OfficeID     string `dynamodbav:"OfficeId"`
	Role         string `dynamodbav:"Role"`
}

func newProfileItem(u *entities.User) profileItem {
	key := ProfileKey(u.ID)
	return profileItem{
		PK:           key.PK,
		SK:           key.SK,
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		OfficeID:     u.OfficeID,
		Role:         string(u.Role),
	}
}

func (i profileItem) toEntity() *entities.User {
	role := valueobjects.Role(i.Role)
	if role == "" {
		role = valueobjects.RoleCustomer
	}
	return &entities.User{
		ID:           i.ID,
		Username:     i.Username,
		PasswordHash: i.PasswordHash,
		Email:        i.Email,
		OfficeID:     i.OfficeID,
		Role:         role,
	}
}

type assignedSlotItem struct {
	BuildingID  string `dynamodbav:"BuildingId"`
	FloorNumber int    `dynamodbav:"FloorNumber"`
	SlotID      int    `dynamodbav:"SlotId"`
}

type vehicleItem struct {
	PK           string            `dynamodbav:"PK"`
	SK           string            `dynamodbav:"SK"`
	VehicleID    string            `dynamodbav:"VehicleId"`
	Numberplate  string            `dynamodbav:"Numberplate"`
	VehicleType  string            `dynamodbav:"VehicleType"`
	IsParked     bool              `dynamodbav:"IsParked"`
	AssignedSlot *assignedSlotItem `dynamodbav:"AssignedSlot,omitempty"`
}

func newVehicleItem(v *entities.Vehicle) vehicleItem {
	key := VehicleKey(v.UserID, v.Numberplate)
	item := vehicleItem{
		PK:          key.PK,
		SK:          key.SK,
		VehicleID:   v.ID,
		Numberplate: v.Numberplate,
		VehicleType: string(v.Type),
		IsParked:    v.IsParked,
	}
	if v.AssignedSlot != nil {
		item.AssignedSlot = &assignedSlotItem{
			BuildingID:  v.AssignedSlot.BuildingID,
			FloorNumber: v.AssignedSlot.FloorNumber,
			SlotID:      v.AssignedSlot.SlotID,
		}
	}
	return item
}

func (i vehicleItem) toEntity(userID string) *entities.Vehicle {
	v := &entities.Vehicle{
		ID:          i.VehicleID,
		UserID:      userID,
		Numberplate: i.Numberplate,
		Type:        valueobjects.VehicleType(i.VehicleType),
		IsParked:    i.IsParked,
	}
	if i.AssignedSlot != nil {
		v.AssignTo(entities.SlotRef{
			BuildingID:  i.AssignedSlot.BuildingID,
			FloorNumber: i.AssignedSlot.FloorNumber,
			SlotID:      i.AssignedSlot.SlotID,
		})
	}
	return v
}

type parkingItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	ParkingID   string `dynamodbav:"ParkingId"`
	Numberplate string `dynamodbav:"Numberplate"`
	BuildingID  string `dynamodbav:"BuildingId"`
	FloorNumber int    `dynamodbav:"FloorNumber"`
	SlotID      int    `dynamodbav:"SlotId"`
	StartTime   int64  `dynamodbav:"StartTime"`
	EndTime     *int64 `dynamodbav:"EndTime,omitempty"`
	VehicleType string `dynamodbav:"VehicleType"`
}

func newParkingItem(r *entities.ParkingRecord) parkingItem {
	key := ParkingKey(r.UserID, r.StartTime)
	return parkingItem{
		PK:          key.PK,
		SK:          key.SK,
		ParkingID:   r.ID,
		Numberplate: r.Numberplate,
		BuildingID:  r.BuildingID,
		FloorNumber: r.FloorNumber,
		SlotID:      r.SlotID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		VehicleType: string(r.VehicleType),
	}
}

func (i parkingItem) toEntity(userID string) *entities.ParkingRecord {
	return &entities.ParkingRecord{
		ID:          i.ParkingID,
		UserID:      userID,
		Numberplate: i.Numberplate,
		BuildingID:  i.BuildingID,
		FloorNumber: i.FloorNumber,
		SlotID:      i.SlotID,
		StartTime:   i.StartTime,
		EndTime:     i.EndTime,
		VehicleType: valueobjects.VehicleType(i.VehicleType),
	}
}

type billLineItem struct {
	TicketID     string `dynamodbav:"TicketId"`
	NumberPlate  string `dynamodbav:"NumberPlate"`
	BuildingID   string `dynamodbav:"BuildingId"`
	BuildingName string `dynamodbav:"BuildingName"`
	FloorNumber  int    `dynamodbav:"FloorNumber"`
	SlotNumber   int    `dynamodbav:"SlotNumber"`
	VehicleType  string `dynamodbav:"VehicleType"`
	StartTime    int64  `dynamodbav:"StartTime"`
	EndTime      int64  `dynamodbav:"EndTime"`
}

type billItem struct {
	PK             string         `dynamodbav:"PK"`
	SK             string         `dynamodbav:"SK"`
	BillingMonth   int            `dynamodbav:"BillingMonth"`
	BillingYear    int            `dynamodbav:"BillingYear"`
	TotalAmount    float64        `dynamodbav:"TotalAmount"`
	BillDate       string         `dynamodbav:"BillDate"`
	ParkingHistory []billLineItem `dynamodbav:"ParkingHistory"`
}

func (i billItem) toEntity(userID string) *entities.Bill {
	bill := &entities.Bill{
		UserID:      userID,
		Month:       i.BillingMonth,
		Year:        i.BillingYear,
		TotalAmount: i.TotalAmount,
		BillDate:    i.BillDate,
		History:     make([]entities.BillLine, 0, len(i.ParkingHistory)),
	}
	for _, line := range i.ParkingHistory {
		bill.History = append(bill.History, entities.BillLine{
			TicketID:     line.TicketID,
			Numberplate:  line.NumberPlate,
			BuildingID:   line.BuildingID,
			BuildingName: line.BuildingName,
			FloorNumber:  line.FloorNumber,
			SlotNumber:   line.SlotNumber,
			VehicleType:  line.VehicleType,
			StartTime:    line.StartTime,
			EndTime:      line.EndTime,
		})
	}
	return bill
}

func marshalItem(v interface{}) (store.Item, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return item, nil
}

func unmarshalItem(item store.Item, out interface{}) error {
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return nil
}

// unmarshalItems decodes a query result into a slice of T.
func unmarshalItems[T any](items []store.Item) ([]T, error) {
	out := make([]T, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return out, nil
}

func sortSlots(slots []*entities.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].SlotID < slots[j].SlotID
	})
}
