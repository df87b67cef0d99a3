package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/domain/core/entities"
	pkgerrors "parkwise/pkg/errors"
)

func newOfficeService() (*OfficeService, *mockOfficeRepo, *mockBuildingRepo, *mockFloorRepo, *mockPublisher) {
	offices, buildings, floors, publisher := new(mockOfficeRepo), new(mockBuildingRepo), new(mockFloorRepo), new(mockPublisher)
	svc := NewOfficeService(offices, buildings, floors, publisher, newMetrics(), zap.NewNop())
	svc.now = fixedClock(1700000000)
	return svc, offices, buildings, floors, publisher
}

func TestOfficeService_AddOffice(t *testing.T) {
	// Arrange
	svc, offices, buildings, floors, publisher := newOfficeService()
	buildings.On("GetBuildingByID", mock.Anything, "b1").Return(&entities.Building{ID: "b1"}, nil)
	floors.On("GetFloor", mock.Anything, "b1", 3).Return(&entities.Floor{BuildingID: "b1", FloorNumber: 3}, nil)
	offices.On("AddOffice", mock.Anything, mock.MatchedBy(func(o *entities.Office) bool {
		return o.Name == "Acme" && o.BuildingID == "b1" && o.FloorNumber == 3
	})).Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("events.OfficeAssigned")).Return(nil)

	// Act
	resp, err := svc.AddOffice(context.Background(), "b1", dto.AddOfficeRequest{OfficeName: "Acme", FloorNumber: 3})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.OfficeName)
	assert.NotEmpty(t, resp.OfficeID)
	publisher.AssertExpectations(t)
}

func TestOfficeService_AddOfficeOccupiedFloor(t *testing.T) {
	svc, offices, buildings, floors, _ := newOfficeService()
	buildings.On("GetBuildingByID", mock.Anything, "b1").Return(&entities.Building{ID: "b1"}, nil)
	floors.On("GetFloor", mock.Anything, "b1", 1).Return(&entities.Floor{BuildingID: "b1", FloorNumber: 1, OfficeID: "o1"}, nil)

	_, err := svc.AddOffice(context.Background(), "b1", dto.AddOfficeRequest{OfficeName: "Globex", FloorNumber: 1})

	assert.True(t, pkgerrors.IsConflict(err))
	offices.AssertNotCalled(t, "AddOffice", mock.Anything, mock.Anything)
}

func TestOfficeService_AddOfficeMissingFloor(t *testing.T) {
	svc, _, buildings, floors, _ := newOfficeService()
	buildings.On("GetBuildingByID", mock.Anything, "b1").Return(&entities.Building{ID: "b1"}, nil)
	floors.On("GetFloor", mock.Anything, "b1", 9).Return(nil, pkgerrors.NewNotFoundError("floor not found"))

	_, err := svc.AddOffice(context.Background(), "b1", dto.AddOfficeRequest{OfficeName: "Globex", FloorNumber: 9})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestOfficeService_GetOffices(t *testing.T) {
	svc, offices, _, _, _ := newOfficeService()
	offices.On("GetOffices", mock.Anything).Return([]*entities.Office{
		{ID: "o1", Name: "Acme", BuildingID: "b1", FloorNumber: 1},
	}, nil)

	got, err := svc.GetOffices(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []dto.OfficeResponse{{OfficeID: "o1", OfficeName: "Acme", BuildingID: "b1", FloorNumber: 1}}, got)
}

func TestOfficeService_DeleteOffice(t *testing.T) {
	svc, offices, _, _, _ := newOfficeService()
	offices.On("DeleteOffice", mock.Anything, "o1").Return(nil)

	require.NoError(t, svc.DeleteOffice(context.Background(), "o1"))
	offices.AssertExpectations(t)
}
