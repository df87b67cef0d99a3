package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/domain/events"
)

type mockBuildingRepo struct{ mock.Mock }

func (m *mockBuildingRepo) AddBuilding(ctx context.Context, b *entities.Building) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBuildingRepo) GetBuildingByID(ctx context.Context, id string) (*entities.Building, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*entities.Building)
	return b, args.Error(1)
}

func (m *mockBuildingRepo) GetBuildings(ctx context.Context) ([]*entities.Building, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]*entities.Building)
	return b, args.Error(1)
}

type mockFloorRepo struct{ mock.Mock }

func (m *mockFloorRepo) AddFloor(ctx context.Context, buildingID string, n int) (*entities.Floor, error) {
	args := m.Called(ctx, buildingID, n)
	f, _ := args.Get(0).(*entities.Floor)
	return f, args.Error(1)
}

func (m *mockFloorRepo) GetFloor(ctx context.Context, buildingID string, n int) (*entities.Floor, error) {
	args := m.Called(ctx, buildingID, n)
	f, _ := args.Get(0).(*entities.Floor)
	return f, args.Error(1)
}

func (m *mockFloorRepo) GetFloors(ctx context.Context, buildingID string) ([]*entities.Floor, error) {
	args := m.Called(ctx, buildingID)
	f, _ := args.Get(0).([]*entities.Floor)
	return f, args.Error(1)
}

type mockSlotRepo struct{ mock.Mock }

func (m *mockSlotRepo) GetSlotsByFloor(ctx context.Context, buildingID string, n int) ([]*entities.Slot, error) {
	args := m.Called(ctx, buildingID, n)
	s, _ := args.Get(0).([]*entities.Slot)
	return s, args.Error(1)
}

func (m *mockSlotRepo) GetFreeSlotsByFloor(ctx context.Context, buildingID string, n int) ([]*entities.Slot, error) {
	args := m.Called(ctx, buildingID, n)
	s, _ := args.Get(0).([]*entities.Slot)
	return s, args.Error(1)
}

func (m *mockSlotRepo) UpdateSlot(ctx context.Context, slot *entities.Slot) error {
	return m.Called(ctx, slot).Error(0)
}

func (m *mockSlotRepo) UpdateSlotOccupancy(ctx context.Context, ref entities.SlotRef, o *entities.Occupant) error {
	return m.Called(ctx, ref, o).Error(0)
}

type mockOfficeRepo struct{ mock.Mock }

func (m *mockOfficeRepo) AddOffice(ctx context.Context, o *entities.Office) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOfficeRepo) GetOfficeByID(ctx context.Context, id string) (*entities.Office, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*entities.Office)
	return o, args.Error(1)
}

func (m *mockOfficeRepo) GetOffices(ctx context.Context) ([]*entities.Office, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).([]*entities.Office)
	return o, args.Error(1)
}

func (m *mockOfficeRepo) DeleteOffice(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) SaveUser(ctx context.Context, u *entities.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entities.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entities.User)
	return u, args.Error(1)
}

type mockVehicleRepo struct{ mock.Mock }

func (m *mockVehicleRepo) GetVehicle(ctx context.Context, userID, plate string) (*entities.Vehicle, error) {
	args := m.Called(ctx, userID, plate)
	v, _ := args.Get(0).(*entities.Vehicle)
	return v, args.Error(1)
}

func (m *mockVehicleRepo) GetVehiclesByUser(ctx context.Context, userID string) ([]*entities.Vehicle, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).([]*entities.Vehicle)
	return v, args.Error(1)
}

func (m *mockVehicleRepo) RegisterVehicle(ctx context.Context, v *entities.Vehicle, a ports.SlotAssignment) error {
	return m.Called(ctx, v, a).Error(0)
}

func (m *mockVehicleRepo) DeleteVehicle(ctx context.Context, userID, plate string) error {
	return m.Called(ctx, userID, plate).Error(0)
}

type mockParkingRepo struct{ mock.Mock }

func (m *mockParkingRepo) Park(ctx context.Context, r *entities.ParkingRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockParkingRepo) UnparkByNumberplate(ctx context.Context, userID, plate string, now time.Time) (*entities.ParkingRecord, error) {
	args := m.Called(ctx, userID, plate, now)
	r, _ := args.Get(0).(*entities.ParkingRecord)
	return r, args.Error(1)
}

func (m *mockParkingRepo) GetParkingHistory(ctx context.Context, userID string, start, end int64, closedOnly bool) ([]*entities.ParkingRecord, error) {
	args := m.Called(ctx, userID, start, end, closedOnly)
	r, _ := args.Get(0).([]*entities.ParkingRecord)
	return r, args.Error(1)
}

type mockBillingRepo struct{ mock.Mock }

func (m *mockBillingRepo) GetBill(ctx context.Context, userID string, month, year int) (*entities.Bill, error) {
	args := m.Called(ctx, userID, month, year)
	b, _ := args.Get(0).(*entities.Bill)
	return b, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, e events.DomainEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishBatch(ctx context.Context, es []events.DomainEvent) error {
	return m.Called(ctx, es).Error(0)
}

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Issue(u *entities.User) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) RecordOperation(ctx context.Context, op string, d time.Duration, err error) {
	m.Called(ctx, op, d, err)
}

func newMetrics() *mockMetrics {
	m := new(mockMetrics)
	m.On("RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return m
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}
