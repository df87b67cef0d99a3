package dto

// AddBuildingRequest is the body of POST /buildings.
type AddBuildingRequest struct {
	BuildingName string `json:"buildingName" validate:"required,min=1,max=100"`
}

// AddFloorRequest is the body of POST /buildings/{buildingId}/floors.
type AddFloorRequest struct {
	FloorNumber int `json:"floorNumber" validate:"gte=0,lte=500"`
}

// AddOfficeRequest is the body of POST /buildings/{buildingId}/offices.
type AddOfficeRequest struct {
	OfficeName  string `json:"officeName" validate:"required,min=1,max=100"`
	FloorNumber int    `json:"floorNumber" validate:"gte=0,lte=500"`
}

// AddVehicleRequest is the body of POST /vehicles.
type AddVehicleRequest struct {
	Numberplate string `json:"numberplate" validate:"required,min=1,max=20"`
	VehicleType string `json:"vehicleType" validate:"required,oneof=TwoWheeler FourWheeler"`
}

// ParkRequest is the body of POST /parkings.
type ParkRequest struct {
	Numberplate string `json:"numberplate" validate:"required,min=1,max=20"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=3,max=50"`
	OfficeID string `json:"officeId" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// HistoryQuery bounds a parking history request. Nil bounds default to the
// beginning of time and now.
type HistoryQuery struct {
	StartTime *int64
	EndTime   *int64
}
