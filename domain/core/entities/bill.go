package entities

// Bill is the monthly statement generated outside this service.
type Bill struct {
	UserID      string
	Month       int
	Year        int
	TotalAmount float64
	BillDate    string
	History     []BillLine
}

// BillLine is one closed parking included in a bill.
type BillLine struct {
	TicketID     string
	Numberplate  string
	BuildingID   string
	BuildingName string
	FloorNumber  int
	SlotNumber   int
	VehicleType  string
	StartTime    int64
	EndTime      int64
}
