package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/domain/events"
	pkgerrors "parkwise/pkg/errors"
)

const parkingNow = 1700000000

type parkingMocks struct {
	parkings  *mockParkingRepo
	vehicles  *mockVehicleRepo
	buildings *mockBuildingRepo
	publisher *mockPublisher
}

func newParkingService() (*ParkingService, parkingMocks) {
	m := parkingMocks{
		parkings:  new(mockParkingRepo),
		vehicles:  new(mockVehicleRepo),
		buildings: new(mockBuildingRepo),
		publisher: new(mockPublisher),
	}
	svc := NewParkingService(m.parkings, m.vehicles, m.buildings, m.publisher, newMetrics(), zap.NewNop())
	svc.now = fixedClock(parkingNow)
	return svc, m
}

func assignedVehicle() *entities.Vehicle {
	v := &entities.Vehicle{ID: "v1", UserID: "u1", Numberplate: "KA01", Type: valueobjects.FourWheeler}
	v.AssignTo(entities.SlotRef{BuildingID: "b1", FloorNumber: 1, SlotID: 11})
	return v
}

func TestParkingService_Park(t *testing.T) {
	// Arrange
	svc, m := newParkingService()
	m.vehicles.On("GetVehicle", mock.Anything, "u1", "KA01").Return(assignedVehicle(), nil)
	m.parkings.On("Park", mock.Anything, mock.MatchedBy(func(r *entities.ParkingRecord) bool {
		return r.StartTime == parkingNow && r.SlotID == 11 && r.BuildingID == "b1" && r.EndTime == nil
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.DomainEvent) bool {
		return e.GetEventType() == events.TypeVehicleParked
	})).Return(nil)

	// Act
	resp, err := svc.Park(context.Background(), "u1", dto.ParkRequest{Numberplate: "KA01"})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.TicketID)
	m.parkings.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestParkingService_ParkUnknownVehicle(t *testing.T) {
	svc, m := newParkingService()
	m.vehicles.On("GetVehicle", mock.Anything, "u1", "XX").Return(nil, pkgerrors.NewNotFoundError("vehicle not found"))

	_, err := svc.Park(context.Background(), "u1", dto.ParkRequest{Numberplate: "XX"})

	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "Vehicle not found", pkgerrors.GetAppError(err).Message)
}

func TestParkingService_ParkUnassignedVehicle(t *testing.T) {
	svc, m := newParkingService()
	m.vehicles.On("GetVehicle", mock.Anything, "u1", "KA02").
		Return(&entities.Vehicle{UserID: "u1", Numberplate: "KA02", Type: valueobjects.TwoWheeler}, nil)

	_, err := svc.Park(context.Background(), "u1", dto.ParkRequest{Numberplate: "KA02"})

	assert.True(t, pkgerrors.IsConflict(err))
	m.parkings.AssertNotCalled(t, "Park", mock.Anything, mock.Anything)
}

func TestParkingService_ParkConflictIsNotPublished(t *testing.T) {
	svc, m := newParkingService()
	m.vehicles.On("GetVehicle", mock.Anything, "u1", "KA01").Return(assignedVehicle(), nil)
	m.parkings.On("Park", mock.Anything, mock.Anything).Return(pkgerrors.NewConflictError("parking creation failed due to conflict"))

	_, err := svc.Park(context.Background(), "u1", dto.ParkRequest{Numberplate: "KA01"})

	assert.True(t, pkgerrors.IsConflict(err))
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestParkingService_Unpark(t *testing.T) {
	// Arrange
	svc, m := newParkingService()
	end := int64(parkingNow)
	m.parkings.On("UnparkByNumberplate", mock.Anything, "u1", "KA01", time.Unix(parkingNow, 0)).Return(&entities.ParkingRecord{
		ID: "p1", UserID: "u1", Numberplate: "KA01", BuildingID: "b1", FloorNumber: 1, SlotID: 11,
		StartTime: parkingNow - 3600, EndTime: &end, VehicleType: valueobjects.FourWheeler,
	}, nil)
	m.buildings.On("GetBuildingByID", mock.Anything, "b1").Return(&entities.Building{ID: "b1", Name: "Tower A"}, nil)
	m.publisher.On("Publish", mock.Anything, mock.AnythingOfType("events.VehicleUnparked")).Return(nil)

	// Act
	resp, err := svc.Unpark(context.Background(), "u1", "KA01")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "p1", resp.TicketID)
	assert.Equal(t, "Tower A", resp.BuildingName)
	require.NotNil(t, resp.EndTime)
	assert.Equal(t, "2023-11-14T22:13:20Z", *resp.EndTime)
}

func TestParkingService_UnparkNothingActive(t *testing.T) {
	svc, m := newParkingService()
	m.parkings.On("UnparkByNumberplate", mock.Anything, "u1", "KA01", mock.Anything).
		Return(nil, pkgerrors.NewNotFoundError("no active parking found"))

	_, err := svc.Unpark(context.Background(), "u1", "KA01")

	assert.True(t, pkgerrors.IsNotFound(err))
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestParkingService_GetParkingsDefaultsAndOrder(t *testing.T) {
	// Arrange
	svc, m := newParkingService()
	end := int64(200)
	m.parkings.On("GetParkingHistory", mock.Anything, "u1", int64(0), int64(parkingNow), false).Return([]*entities.ParkingRecord{
		{ID: "old", BuildingID: "b1", StartTime: 100, EndTime: &end},
		{ID: "new", BuildingID: "b1", StartTime: 300},
	}, nil)
	m.buildings.On("GetBuildingByID", mock.Anything, "b1").Return(&entities.Building{ID: "b1", Name: "Tower A"}, nil).Once()

	// Act
	got, err := svc.GetParkings(context.Background(), "u1", dto.HistoryQuery{})

	// Assert
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].TicketID)
	assert.Nil(t, got[0].EndTime)
	assert.Equal(t, "old", got[1].TicketID)
	assert.Equal(t, "1970-01-01T00:01:40Z", got[1].StartTime)
	m.buildings.AssertExpectations(t)
}

func TestParkingService_GetParkingsRejectsInvertedRange(t *testing.T) {
	svc, _ := newParkingService()
	start, end := int64(500), int64(100)

	_, err := svc.GetParkings(context.Background(), "u1", dto.HistoryQuery{StartTime: &start, EndTime: &end})

	assert.True(t, pkgerrors.IsValidation(err))
}
