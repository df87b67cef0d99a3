package dynamodb

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/infrastructure/persistence/store"
	pkgerrors "parkwise/pkg/errors"
)

const attrStartTime = "StartTime"

// Operation labels of the park and unpark transactions, in submission order.
var parkingOpLabels = []string{"vehicle", "slot", "floor", "building", "record"}

// ParkingRepository implements ports.ParkingRepository. Park and unpark each
// touch the vehicle, the slot, both availability counters and the record in a
// single transaction, so the counters always equal the number of free slots.
type ParkingRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewParkingRepository creates a new ParkingRepository
func NewParkingRepository(kv store.KeyValueStore, logger *zap.Logger) *ParkingRepository {
	return &ParkingRepository{store: kv, logger: logger}
}

var _ ports.ParkingRepository = (*ParkingRepository)(nil)

// Park occupies the record's slot. Any failed condition (vehicle already parked,
// slot occupied, no capacity left, duplicate record) cancels the whole write.
func (r *ParkingRepository) Park(ctx context.Context, record *entities.ParkingRecord) error {
	raw, err := r.store.GetItem(ctx, ProfileKey(record.UserID))
	if errors.Is(err, store.ErrItemNotFound) {
		return pkgerrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return storeError("Park", err)
	}
	var profile profileItem
	if err := unmarshalItem(raw, &profile); err != nil {
		return storeError("Park", err)
	}

	open := *record
	open.EndTime = nil
	item, err := marshalItem(newParkingItem(&open))
	if err != nil {
		return err
	}
	occupant := newOccupantItem(&entities.Occupant{
		Username:    profile.Username,
		Numberplate: record.Numberplate,
		Email:       profile.Email,
		StartTime:   record.StartTime,
	})
	hasCapacity := store.And(store.ItemExists(), store.GreaterThan(attrAvailableSlots, 0))

	err = r.store.TransactWrite(ctx, []store.Operation{
		store.UpdateOp(VehicleKey(record.UserID, record.Numberplate),
			store.Set(attrIsParked, true),
			store.And(store.ItemExists(), store.Equal(attrIsParked, false)),
		),
		store.UpdateOp(SlotKey(record.BuildingID, record.FloorNumber, record.SlotID),
			store.Set(attrIsOccupied, true).Set(attrOccupiedBy, occupant),
			store.And(store.ItemExists(), store.Equal(attrIsOccupied, false)),
		),
		store.UpdateOp(FloorKey(record.BuildingID, record.FloorNumber),
			store.Increment(attrAvailableSlots, -1), hasCapacity),
		store.UpdateOp(BuildingKey(record.BuildingID),
			store.Increment(attrAvailableSlots, -1), hasCapacity),
		store.Put(item, store.ItemNotExists()),
	})
	if _, canceled := store.AsTransactionCanceled(err); canceled {
		r.logger.Warn("Parking canceled",
			append(cancellationFields(err, parkingOpLabels...),
				zap.String("userID", record.UserID),
				zap.String("numberplate", record.Numberplate),
			)...,
		)
		return pkgerrors.NewConflictError("parking creation failed due to conflict")
	}
	if err != nil {
		r.logger.Error("Failed to park vehicle", zap.Error(err), zap.String("userID", record.UserID))
		return storeError("Park", err)
	}

	r.logger.Info("Vehicle parked",
		zap.String("ticketID", record.ID),
		zap.String("userID", record.UserID),
		zap.String("numberplate", record.Numberplate),
		zap.String("buildingID", record.BuildingID),
		zap.Int("floorNumber", record.FloorNumber),
		zap.Int("slotID", record.SlotID),
	)
	return nil
}

// UnparkByNumberplate closes the earliest open record of the plate. The whole
// partition prefix is filtered; a Limit would cut the page before the filter runs.
func (r *ParkingRepository) UnparkByNumberplate(ctx context.Context, userID, numberplate string, now time.Time) (*entities.ParkingRecord, error) {
	numberplate = entities.NormalizeNumberplate(numberplate)
	raw, err := r.store.Query(ctx, store.Query{
		PK:       userPK(userID),
		SKPrefix: parkingPrefix,
		Filter: store.And(
			store.Equal(attrNumberplate, numberplate),
			store.NotExists(attrEndTime),
		),
	})
	if err != nil {
		return nil, storeError("UnparkByNumberplate", err)
	}
	items, err := unmarshalItems[parkingItem](raw)
	if err != nil {
		return nil, storeError("UnparkByNumberplate", err)
	}
	if len(items) == 0 {
		return nil, pkgerrors.NewNotFoundError("no active parking found")
	}

	active := items[0]
	for _, item := range items[1:] {
		if item.StartTime < active.StartTime {
			active = item
		}
	}
	record := active.toEntity(userID)
	end := record.ClosingTime(now)
	hasRoom := store.LessThanAttribute(attrAvailableSlots, attrTotalSlots)

	err = r.store.TransactWrite(ctx, []store.Operation{
		store.UpdateOp(VehicleKey(userID, record.Numberplate),
			store.Set(attrIsParked, false), store.ItemExists()),
		store.UpdateOp(SlotKey(record.BuildingID, record.FloorNumber, record.SlotID),
			store.Set(attrIsOccupied, false).Remove(attrOccupiedBy), store.ItemExists()),
		store.UpdateOp(FloorKey(record.BuildingID, record.FloorNumber),
			store.Increment(attrAvailableSlots, 1), hasRoom),
		store.UpdateOp(BuildingKey(record.BuildingID),
			store.Increment(attrAvailableSlots, 1), hasRoom),
		store.UpdateOp(ParkingKey(userID, record.StartTime),
			store.Set(attrEndTime, end),
			store.And(store.ItemExists(), store.NotExists(attrEndTime)),
		),
	})
	if _, canceled := store.AsTransactionCanceled(err); canceled {
		r.logger.Warn("Unpark canceled",
			append(cancellationFields(err, parkingOpLabels...),
				zap.String("userID", userID),
				zap.String("numberplate", numberplate),
			)...,
		)
		return nil, pkgerrors.NewConflictError("unpark failed due to conflict")
	}
	if err != nil {
		r.logger.Error("Failed to unpark vehicle", zap.Error(err), zap.String("userID", userID))
		return nil, storeError("UnparkByNumberplate", err)
	}

	record.EndTime = &end
	r.logger.Info("Vehicle unparked",
		zap.String("ticketID", record.ID),
		zap.String("userID", userID),
		zap.String("numberplate", numberplate),
		zap.Int64("duration", end-record.StartTime),
	)
	return record, nil
}

// GetParkingHistory returns the user's records with start in [start, end],
// oldest first. Sort keys embed the start time as decimal text, so a key range
// is only used when both bounds have the same number of digits; the numeric
// filter is applied in every case.
func (r *ParkingRepository) GetParkingHistory(ctx context.Context, userID string, start, end int64, closedOnly bool) ([]*entities.ParkingRecord, error) {
	if start < 0 {
		start = 0
	}
	if end < start {
		return []*entities.ParkingRecord{}, nil
	}

	filters := []store.Condition{
		store.GreaterThan(attrStartTime, start-1),
		store.LessThan(attrStartTime, end+1),
	}
	if closedOnly {
		filters = append(filters, store.Exists(attrEndTime))
	}
	q := store.Query{PK: userPK(userID), Filter: store.And(filters...)}

	from, to := strconv.FormatInt(start, 10), strconv.FormatInt(end, 10)
	if len(from) == len(to) {
		q.SKBetween = &store.SKRange{From: parkingPrefix + from, To: parkingPrefix + to}
	} else {
		q.SKPrefix = parkingPrefix
	}

	raw, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, storeError("GetParkingHistory", err)
	}
	items, err := unmarshalItems[parkingItem](raw)
	if err != nil {
		return nil, storeError("GetParkingHistory", err)
	}

	records := make([]*entities.ParkingRecord, 0, len(items))
	for _, item := range items {
		records = append(records, item.toEntity(userID))
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime < records[j].StartTime
	})
	return records, nil
}
