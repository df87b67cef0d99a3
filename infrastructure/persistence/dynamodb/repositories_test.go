package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/application/ports"
	"parkwise/application/services"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/messaging"
	"parkwise/infrastructure/persistence/store"
	pkgerrors "parkwise/pkg/errors"
	"parkwise/pkg/observability"
)

type fixture struct {
	kv        *store.MemoryStore
	buildings *BuildingRepository
	floors    *FloorRepository
	slots     *SlotRepository
	offices   *OfficeRepository
	users     *UserRepository
	vehicles  *VehicleRepository
	parkings  *ParkingRepository
	bills     *BillingRepository
}

func newFixture(t *testing.T, layout string) *fixture {
	t.Helper()
	kv := store.NewMemoryStore()
	logger := zap.NewNop()
	return &fixture{
		kv:        kv,
		buildings: NewBuildingRepository(kv, logger),
		floors:    NewFloorRepository(kv, valueobjects.MustSlotLayout(layout), logger),
		slots:     NewSlotRepository(kv, logger),
		offices:   NewOfficeRepository(kv, logger),
		users:     NewUserRepository(kv, logger),
		vehicles:  NewVehicleRepository(kv, logger),
		parkings:  NewParkingRepository(kv, logger),
		bills:     NewBillingRepository(kv, logger),
	}
}

// seed provisions building b1 with floor 1, an office on it and user u1.
func (f *fixture) seed(t *testing.T) (*entities.Building, *entities.User) {
	t.Helper()
	ctx := context.Background()

	building, err := entities.NewBuilding("Tower A")
	require.NoError(t, err)
	require.NoError(t, f.buildings.AddBuilding(ctx, building))
	_, err = f.floors.AddFloor(ctx, building.ID, 1)
	require.NoError(t, err)

	office, err := entities.NewOffice("Acme", building.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.offices.AddOffice(ctx, office))

	user, err := entities.NewUser("alice", "Alice@Example.com", "hash", office.ID, valueobjects.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, f.users.SaveUser(ctx, user))
	return building, user
}

func (f *fixture) register(t *testing.T, userID, plate string, vt valueobjects.VehicleType, ref entities.SlotRef, assignment ports.SlotAssignment) *entities.Vehicle {
	t.Helper()
	v, err := entities.NewVehicle(userID, plate, vt)
	require.NoError(t, err)
	v.AssignTo(ref)
	require.NoError(t, f.vehicles.RegisterVehicle(context.Background(), v, assignment))
	return v
}

func (f *fixture) counters(t *testing.T, buildingID string, floorNumber int) (int, int) {
	t.Helper()
	ctx := context.Background()
	b, err := f.buildings.GetBuildingByID(ctx, buildingID)
	require.NoError(t, err)
	fl, err := f.floors.GetFloor(ctx, buildingID, floorNumber)
	require.NoError(t, err)
	return b.AvailableSlots, fl.AvailableSlots
}

// interleavingStore runs before once, just ahead of the first transaction.
type interleavingStore struct {
	store.KeyValueStore
	once   sync.Once
	before func()
}

func (s *interleavingStore) TransactWrite(ctx context.Context, ops []store.Operation) error {
	s.once.Do(s.before)
	return s.KeyValueStore.TransactWrite(ctx, ops)
}

// reasonlessStore drops per-operation cancellation reasons, as the SDK does when
// the typed exception is unavailable.
type reasonlessStore struct {
	*store.MemoryStore
}

func (s reasonlessStore) TransactWrite(ctx context.Context, ops []store.Operation) error {
	err := s.MemoryStore.TransactWrite(ctx, ops)
	if _, canceled := store.AsTransactionCanceled(err); canceled {
		return &store.TransactionCanceledError{}
	}
	return err
}

// assertCountersConserved checks that every floor counter equals its number of
// unoccupied slots and that the building counter is the sum of its floors.
func (f *fixture) assertCountersConserved(t *testing.T, buildingID string, floorNumbers ...int) {
	t.Helper()
	ctx := context.Background()

	sum := 0
	for _, n := range floorNumbers {
		floor, err := f.floors.GetFloor(ctx, buildingID, n)
		require.NoError(t, err)
		slots, err := f.slots.GetSlotsByFloor(ctx, buildingID, n)
		require.NoError(t, err)

		free := 0
		for _, slot := range slots {
			if !slot.IsOccupied {
				free++
			}
		}
		assert.Equal(t, free, floor.AvailableSlots, "floor %d", n)
		sum += floor.AvailableSlots
	}

	building, err := f.buildings.GetBuildingByID(ctx, buildingID)
	require.NoError(t, err)
	assert.Equal(t, sum, building.AvailableSlots)
}

func TestFloorRepository_AddFloorIsIdempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, err := entities.NewBuilding("Tower A")
	require.NoError(t, err)
	require.NoError(t, f.buildings.AddBuilding(ctx, building))

	// Act
	floor, err := f.floors.AddFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	_, err = f.floors.AddFloor(ctx, building.ID, 1)

	// Assert
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 30, floor.TotalSlots)

	got, err := f.buildings.GetBuildingByID(ctx, building.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalFloors)
	assert.Equal(t, 30, got.TotalSlots)
	assert.Equal(t, 30, got.AvailableSlots)

	slots, err := f.slots.GetSlotsByFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	require.Len(t, slots, 30)
	assert.Equal(t, 1, slots[0].SlotID)
	assert.Equal(t, valueobjects.TwoWheeler, slots[0].Type)
	assert.Equal(t, valueobjects.FourWheeler, slots[29].Type)
}

func TestFloorRepository_AddFloorUnknownBuilding(t *testing.T) {
	f := newFixture(t, valueobjects.DefaultSlotLayout)

	_, err := f.floors.AddFloor(context.Background(), "missing", 1)

	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, 0, f.kv.Len())
}

func TestFloorRepository_OverflowLayout(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, strings.Repeat("01", 75))
	building, err := entities.NewBuilding("Tower B")
	require.NoError(t, err)
	require.NoError(t, f.buildings.AddBuilding(ctx, building))

	// Act
	_, err = f.floors.AddFloor(ctx, building.ID, 2)
	require.NoError(t, err)

	// Assert
	slots, err := f.slots.GetSlotsByFloor(ctx, building.ID, 2)
	require.NoError(t, err)
	assert.Len(t, slots, 150)
	assert.Equal(t, 150, slots[149].SlotID)

	// A deferred slot lost after the commit is restored by a retry.
	require.NoError(t, f.kv.DeleteItem(ctx, SlotKey(building.ID, 2, 150), store.Condition{}))
	_, err = f.floors.AddFloor(ctx, building.ID, 2)
	assert.True(t, pkgerrors.IsConflict(err))

	slots, err = f.slots.GetSlotsByFloor(ctx, building.ID, 2)
	require.NoError(t, err)
	assert.Len(t, slots, 150)

	got, err := f.buildings.GetBuildingByID(ctx, building.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, got.TotalSlots)
	assert.Equal(t, 1, got.TotalFloors)
}

func TestParkingRepository_ParkUnparkRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 11}
	vehicle := f.register(t, user.ID, "ka 01 ab 1234", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)
	record := entities.NewParkingRecord(vehicle, time.Unix(1000, 0))

	// Act
	require.NoError(t, f.parkings.Park(ctx, record))

	// Assert
	buildingFree, floorFree := f.counters(t, building.ID, 1)
	assert.Equal(t, 29, buildingFree)
	assert.Equal(t, 29, floorFree)

	slots, err := f.slots.GetSlotsByFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	occupied := slots[10]
	assert.True(t, occupied.IsOccupied)
	require.NotNil(t, occupied.OccupiedBy)
	assert.Equal(t, "KA01AB1234", occupied.OccupiedBy.Numberplate)
	assert.Equal(t, "alice@example.com", occupied.OccupiedBy.Email)

	parked, err := f.vehicles.GetVehicle(ctx, user.ID, "KA01AB1234")
	require.NoError(t, err)
	assert.True(t, parked.IsParked)

	// Act
	closed, err := f.parkings.UnparkByNumberplate(ctx, user.ID, "KA01AB1234", time.Unix(2000, 0))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	assert.Equal(t, int64(2000), *closed.EndTime)
	assert.Equal(t, record.ID, closed.ID)

	buildingFree, floorFree = f.counters(t, building.ID, 1)
	assert.Equal(t, 30, buildingFree)
	assert.Equal(t, 30, floorFree)

	slots, err = f.slots.GetSlotsByFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	assert.False(t, slots[10].IsOccupied)
	assert.Nil(t, slots[10].OccupiedBy)
	assert.True(t, slots[10].IsAssigned)
}

func TestFloorRepository_CancellationWithoutReasons(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	floors := NewFloorRepository(reasonlessStore{f.kv}, valueobjects.MustSlotLayout(valueobjects.DefaultSlotLayout), zap.NewNop())
	building, err := entities.NewBuilding("Tower C")
	require.NoError(t, err)
	require.NoError(t, f.buildings.AddBuilding(ctx, building))

	// Act / Assert
	_, err = floors.AddFloor(ctx, "missing", 1)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "building not found", pkgerrors.GetAppError(err).Message)

	_, err = floors.AddFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	_, err = floors.AddFloor(ctx, building.ID, 1)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, "floor already exists", pkgerrors.GetAppError(err).Message)
}

// A building with one floor of two two-wheeler slots, driven through the
// services: the vehicle is auto-assigned slot 1, parks and unparks.
func TestParkingFlow_TwoWheelerFloor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	logger := zap.NewNop()
	f := newFixture(t, "00")
	building, user := f.seed(t)
	publisher := messaging.NewLogPublisher(logger)
	metrics := observability.NopRecorder{}
	vehicleSvc := services.NewVehicleService(f.vehicles, f.users, f.offices, f.slots, f.buildings, publisher, metrics, logger)
	parkingSvc := services.NewParkingService(f.parkings, f.vehicles, f.buildings, publisher, metrics, logger)

	// Act
	vehicle, err := vehicleSvc.AddVehicle(ctx, user.ID, dto.AddVehicleRequest{Numberplate: "v1", VehicleType: "TwoWheeler"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, building.ID, vehicle.AssignedBuildingID)
	assert.Equal(t, 1, vehicle.AssignedFloorNumber)
	assert.Equal(t, 1, vehicle.AssignedSlotNumber)

	// Act
	_, err = parkingSvc.Park(ctx, user.ID, dto.ParkRequest{Numberplate: "v1"})

	// Assert
	require.NoError(t, err)
	buildingFree, floorFree := f.counters(t, building.ID, 1)
	assert.Equal(t, 1, buildingFree)
	assert.Equal(t, 1, floorFree)
	slots, err := f.slots.GetSlotsByFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	assert.True(t, slots[0].IsOccupied)
	assert.False(t, slots[1].IsOccupied)

	// Act
	_, err = parkingSvc.Unpark(ctx, user.ID, "v1")

	// Assert
	require.NoError(t, err)
	buildingFree, floorFree = f.counters(t, building.ID, 1)
	assert.Equal(t, 2, buildingFree)
	assert.Equal(t, 2, floorFree)
	slots, err = f.slots.GetSlotsByFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	assert.False(t, slots[0].IsOccupied)

	closed, err := f.parkings.GetParkingHistory(ctx, user.ID, 0, time.Now().Unix()+60, true)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.NotNil(t, closed[0].EndTime)
	assert.GreaterOrEqual(t, *closed[0].EndTime, closed[0].StartTime)
}

func TestParkingRepository_CountersConservedAcrossFloors(t *testing.T) {
	// Arrange: two floors of "0011", one user per floor, one vehicle per slot.
	ctx := context.Background()
	f := newFixture(t, "0011")
	building, alice := f.seed(t)
	_, err := f.floors.AddFloor(ctx, building.ID, 2)
	require.NoError(t, err)
	office, err := entities.NewOffice("Globex", building.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.offices.AddOffice(ctx, office))
	bob, err := entities.NewUser("bob", "bob@example.com", "hash", office.ID, valueobjects.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, f.users.SaveUser(ctx, bob))

	type car struct {
		userID  string
		vehicle *entities.Vehicle
	}
	layout := valueobjects.MustSlotLayout("0011")
	var cars []car
	for floor, owner := range map[int]string{1: alice.ID, 2: bob.ID} {
		for slotID := 1; slotID <= layout.Len(); slotID++ {
			ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: floor, SlotID: slotID}
			plate := fmt.Sprintf("F%dS%d", floor, slotID)
			cars = append(cars, car{owner, f.register(t, owner, plate, layout.TypeOf(slotID), ref, ports.ClaimFreeSlot)})
		}
	}

	// Act: park everything sequentially, then unpark every other vehicle.
	parked := make(map[string]bool)
	for i, c := range cars {
		require.NoError(t, f.parkings.Park(ctx, entities.NewParkingRecord(c.vehicle, time.Unix(int64(1000+i), 0))))
		parked[c.vehicle.Numberplate] = true
	}
	for i, c := range cars {
		if i%2 == 0 {
			_, err := f.parkings.UnparkByNumberplate(ctx, c.userID, c.vehicle.Numberplate, time.Unix(1500, 0))
			require.NoError(t, err)
			parked[c.vehicle.Numberplate] = false
		}
	}

	// Assert
	f.assertCountersConserved(t, building.ID, 1, 2)
	buildingFree, _ := f.counters(t, building.ID, 1)
	assert.Equal(t, len(cars)/2, buildingFree)

	// Act: concurrently flip every vehicle; unparked vehicles get two competing parks.
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		parkWins    = make(map[string]int)
		unparkFails int
	)
	for i, c := range cars {
		if parked[c.vehicle.Numberplate] {
			wg.Add(1)
			go func(c car) {
				defer wg.Done()
				_, err := f.parkings.UnparkByNumberplate(ctx, c.userID, c.vehicle.Numberplate, time.Unix(3000, 0))
				if err != nil {
					mu.Lock()
					unparkFails++
					mu.Unlock()
				}
			}(c)
			continue
		}
		for attempt := 0; attempt < 2; attempt++ {
			wg.Add(1)
			go func(c car, start int64) {
				defer wg.Done()
				err := f.parkings.Park(ctx, entities.NewParkingRecord(c.vehicle, time.Unix(start, 0)))
				if err == nil {
					mu.Lock()
					parkWins[c.vehicle.Numberplate]++
					mu.Unlock()
				}
			}(c, int64(2000+100*attempt+i))
		}
	}
	wg.Wait()

	// Assert
	assert.Zero(t, unparkFails)
	for plate, wasParked := range parked {
		if !wasParked {
			assert.Equal(t, 1, parkWins[plate], plate)
		}
	}
	f.assertCountersConserved(t, building.ID, 1, 2)
	buildingFree, floorOneFree := f.counters(t, building.ID, 1)
	_, floorTwoFree := f.counters(t, building.ID, 2)
	assert.Equal(t, len(cars)/2, buildingFree)
	assert.Equal(t, buildingFree, floorOneFree+floorTwoFree)
}

func TestParkingRepository_ParkTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 12}
	vehicle := f.register(t, user.ID, "KA01", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)
	require.NoError(t, f.parkings.Park(ctx, entities.NewParkingRecord(vehicle, time.Unix(1000, 0))))

	err := f.parkings.Park(ctx, entities.NewParkingRecord(vehicle, time.Unix(1001, 0)))

	assert.True(t, pkgerrors.IsConflict(err))
	buildingFree, floorFree := f.counters(t, building.ID, 1)
	assert.Equal(t, 29, buildingFree)
	assert.Equal(t, 29, floorFree)
}

func TestParkingRepository_ParkUnknownUser(t *testing.T) {
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	record := &entities.ParkingRecord{ID: "p1", UserID: "ghost", Numberplate: "X1", StartTime: 1}

	err := f.parkings.Park(context.Background(), record)

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestParkingRepository_ConcurrentParksOnOneSlot(t *testing.T) {
	// Arrange
	const contenders = 10
	ctx := context.Background()
	f := newFixture(t, "1")
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 1}

	vehicles := make([]*entities.Vehicle, contenders)
	for i := range vehicles {
		assignment := ports.ShareAssignedSlot
		if i == 0 {
			assignment = ports.ClaimFreeSlot
		}
		vehicles[i] = f.register(t, user.ID, fmt.Sprintf("KA%02d", i), valueobjects.FourWheeler, ref, assignment)
	}

	// Act
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i, v := range vehicles {
		wg.Add(1)
		go func(i int, v *entities.Vehicle) {
			defer wg.Done()
			err := f.parkings.Park(ctx, entities.NewParkingRecord(v, time.Unix(int64(1000+i), 0)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case pkgerrors.IsConflict(err):
				conflicts++
			}
		}(i, v)
	}
	wg.Wait()

	// Assert
	assert.Equal(t, 1, successes)
	assert.Equal(t, contenders-1, conflicts)
	buildingFree, floorFree := f.counters(t, building.ID, 1)
	assert.Equal(t, 0, buildingFree)
	assert.Equal(t, 0, floorFree)

	history, err := f.parkings.GetParkingHistory(ctx, user.ID, 0, 5000, false)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestParkingRepository_UnparkWithoutActiveParking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 13}
	f.register(t, user.ID, "KA02", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)
	before := f.kv.Len()

	_, err := f.parkings.UnparkByNumberplate(ctx, user.ID, "KA02", time.Unix(5000, 0))

	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "no active parking found", pkgerrors.GetAppError(err).Message)
	assert.Equal(t, before, f.kv.Len())
	buildingFree, floorFree := f.counters(t, building.ID, 1)
	assert.Equal(t, 30, buildingFree)
	assert.Equal(t, 30, floorFree)
}

func TestParkingRepository_UnparkBeforeStartClampsEndTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 14}
	v := f.register(t, user.ID, "KA03", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)
	require.NoError(t, f.parkings.Park(ctx, entities.NewParkingRecord(v, time.Unix(3000, 0))))

	closed, err := f.parkings.UnparkByNumberplate(ctx, user.ID, "KA03", time.Unix(2500, 0))

	require.NoError(t, err)
	assert.Equal(t, int64(3000), *closed.EndTime)
}

func TestParkingRepository_HistoryAcrossDigitBoundary(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 15}
	v := f.register(t, user.ID, "KA04", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)

	stays := [][2]int64{{999, 1000}, {1500, 1600}, {9999, 0}}
	for _, stay := range stays {
		require.NoError(t, f.parkings.Park(ctx, entities.NewParkingRecord(v, time.Unix(stay[0], 0))))
		if stay[1] > 0 {
			_, err := f.parkings.UnparkByNumberplate(ctx, user.ID, "KA04", time.Unix(stay[1], 0))
			require.NoError(t, err)
		}
	}

	// Act
	all, err := f.parkings.GetParkingHistory(ctx, user.ID, 0, 20000, false)
	require.NoError(t, err)
	closed, err := f.parkings.GetParkingHistory(ctx, user.ID, 0, 20000, true)
	require.NoError(t, err)
	sameWidth, err := f.parkings.GetParkingHistory(ctx, user.ID, 1000, 2000, false)
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, []int64{999, 1500, 9999}, []int64{all[0].StartTime, all[1].StartTime, all[2].StartTime})
	assert.Len(t, closed, 2)
	require.Len(t, sameWidth, 1)
	assert.Equal(t, int64(1500), sameWidth[0].StartTime)
}

func TestUserRepository_EmailUniqueness(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	first, err := entities.NewUser("alice", "alice@example.com", "hash", "o1", valueobjects.RoleCustomer)
	require.NoError(t, err)
	second, err := entities.NewUser("mallory", "ALICE@example.com", "hash", "o1", valueobjects.RoleCustomer)
	require.NoError(t, err)

	// Act
	require.NoError(t, f.users.SaveUser(ctx, first))
	err = f.users.SaveUser(ctx, second)

	// Assert
	assert.True(t, pkgerrors.IsConflict(err))
	_, err = f.users.GetByID(ctx, second.ID)
	assert.True(t, pkgerrors.IsNotFound(err), "no orphan profile")

	got, err := f.users.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestUserRepository_GetByEmailMissing(t *testing.T) {
	f := newFixture(t, valueobjects.DefaultSlotLayout)

	_, err := f.users.GetByEmail(context.Background(), "nobody@example.com")

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestVehicleRepository_ClaimRaceSurfacesSlotUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 16}
	f.register(t, user.ID, "KA05", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)

	late, err := entities.NewVehicle(user.ID, "KA06", valueobjects.FourWheeler)
	require.NoError(t, err)
	late.AssignTo(ref)
	err = f.vehicles.RegisterVehicle(ctx, late, ports.ClaimFreeSlot)

	assert.True(t, pkgerrors.IsConflict(err))
	assert.True(t, errors.Is(err, entities.ErrSlotUnavailable))
	_, err = f.vehicles.GetVehicle(ctx, user.ID, "KA06")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestVehicleRepository_DuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 17}
	f.register(t, user.ID, "KA07", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)

	dup, err := entities.NewVehicle(user.ID, "ka07", valueobjects.FourWheeler)
	require.NoError(t, err)
	dup.AssignTo(ref)
	err = f.vehicles.RegisterVehicle(ctx, dup, ports.ShareAssignedSlot)

	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, "vehicle already registered", pkgerrors.GetAppError(err).Message)

	// Claiming the taken slot fails both conditions; the duplicate plate is reported.
	err = f.vehicles.RegisterVehicle(ctx, dup, ports.ClaimFreeSlot)

	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, "vehicle already registered", pkgerrors.GetAppError(err).Message)
	assert.False(t, errors.Is(err, entities.ErrSlotUnavailable))
}

func TestVehicleRepository_DeleteReleasesSlotAfterLastSibling(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 1}
	f.register(t, user.ID, "KA10", valueobjects.TwoWheeler, ref, ports.ClaimFreeSlot)
	f.register(t, user.ID, "KA11", valueobjects.TwoWheeler, ref, ports.ShareAssignedSlot)

	isAssigned := func() bool {
		slots, err := f.slots.GetSlotsByFloor(ctx, building.ID, 1)
		require.NoError(t, err)
		return slots[0].IsAssigned
	}

	// Act / Assert
	require.NoError(t, f.vehicles.DeleteVehicle(ctx, user.ID, "KA10"))
	assert.True(t, isAssigned())

	require.NoError(t, f.vehicles.DeleteVehicle(ctx, user.ID, "KA11"))
	assert.False(t, isAssigned())

	err := f.vehicles.DeleteVehicle(ctx, user.ID, "KA11")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestVehicleRepository_DeleteKeepsSlotOfSiblingRegisteredConcurrently(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 11}
	f.register(t, user.ID, "KA20", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)

	// The sibling commits after the delete has read the slot.
	kv := &interleavingStore{KeyValueStore: f.kv, before: func() {
		f.register(t, user.ID, "KA21", valueobjects.FourWheeler, ref, ports.ShareAssignedSlot)
	}}
	vehicles := NewVehicleRepository(kv, zap.NewNop())

	slotAt := func() *entities.Slot {
		slots, err := f.slots.GetSlotsByFloor(ctx, building.ID, 1)
		require.NoError(t, err)
		return slots[10]
	}

	// Act
	require.NoError(t, vehicles.DeleteVehicle(ctx, user.ID, "KA20"))

	// Assert
	slot := slotAt()
	assert.True(t, slot.IsAssigned)
	assert.Equal(t, 1, slot.AssignedCount)

	rival, err := entities.NewVehicle("u2", "MH01", valueobjects.FourWheeler)
	require.NoError(t, err)
	rival.AssignTo(ref)
	err = f.vehicles.RegisterVehicle(ctx, rival, ports.ClaimFreeSlot)
	assert.True(t, errors.Is(err, entities.ErrSlotUnavailable))

	require.NoError(t, vehicles.DeleteVehicle(ctx, user.ID, "KA21"))
	slot = slotAt()
	assert.False(t, slot.IsAssigned)
	assert.Zero(t, slot.AssignedCount)
}

func TestVehicleRepository_DeleteParkedVehicle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)
	ref := entities.SlotRef{BuildingID: building.ID, FloorNumber: 1, SlotID: 18}
	v := f.register(t, user.ID, "KA12", valueobjects.FourWheeler, ref, ports.ClaimFreeSlot)
	require.NoError(t, f.parkings.Park(ctx, entities.NewParkingRecord(v, time.Unix(1000, 0))))

	err := f.vehicles.DeleteVehicle(ctx, user.ID, "KA12")

	assert.True(t, pkgerrors.IsConflict(err))
	_, err = f.vehicles.GetVehicle(ctx, user.ID, "KA12")
	assert.NoError(t, err)
}

func TestOfficeRepository_OneOfficePerFloor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, _ := f.seed(t)
	rival, err := entities.NewOffice("Globex", building.ID, 1)
	require.NoError(t, err)
	orphan, err := entities.NewOffice("Initech", building.ID, 7)
	require.NoError(t, err)

	// Act / Assert
	err = f.offices.AddOffice(ctx, rival)
	assert.True(t, pkgerrors.IsConflict(err))
	_, err = f.offices.GetOfficeByID(ctx, rival.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	err = f.offices.AddOffice(ctx, orphan)
	assert.True(t, pkgerrors.IsConflict(err))

	offices, err := f.offices.GetOffices(ctx)
	require.NoError(t, err)
	assert.Len(t, offices, 1)
}

func TestOfficeRepository_DeleteUnlinksFloor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)
	building, user := f.seed(t)

	require.NoError(t, f.offices.DeleteOffice(ctx, user.OfficeID))

	floor, err := f.floors.GetFloor(ctx, building.ID, 1)
	require.NoError(t, err)
	assert.False(t, floor.HasOffice())

	replacement, err := entities.NewOffice("Globex", building.ID, 1)
	require.NoError(t, err)
	assert.NoError(t, f.offices.AddOffice(ctx, replacement))

	err = f.offices.DeleteOffice(ctx, user.OfficeID)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestBillingRepository_GetBill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, valueobjects.DefaultSlotLayout)

	_, err := f.bills.GetBill(ctx, "u1", 3, 2024)
	assert.True(t, pkgerrors.IsNotFound(err))

	key := BillKey("u1", 2024, 3)
	item, err := marshalItem(billItem{
		PK:           key.PK,
		SK:           key.SK,
		BillingMonth: 3,
		BillingYear:  2024,
		TotalAmount:  120.5,
		BillDate:     "2024-04-01",
		ParkingHistory: []billLineItem{
			{TicketID: "t1", NumberPlate: "KA01", BuildingID: "b1", SlotNumber: 11, StartTime: 1, EndTime: 3601},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.kv.PutItem(ctx, item, store.Condition{}))

	bill, err := f.bills.GetBill(ctx, "u1", 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 120.5, bill.TotalAmount)
	require.Len(t, bill.History, 1)
	assert.Equal(t, "KA01", bill.History[0].Numberplate)
}
