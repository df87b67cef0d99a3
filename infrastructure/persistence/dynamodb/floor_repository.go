package dynamodb

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/persistence/store"
	pkgerrors "parkwise/pkg/errors"
)

// FloorRepository implements ports.FloorRepository. Every new floor gets the
// slots described by layout.
type FloorRepository struct {
	store  store.KeyValueStore
	layout valueobjects.SlotLayout
	logger *zap.Logger
}

// NewFloorRepository creates a new FloorRepository
func NewFloorRepository(kv store.KeyValueStore, layout valueobjects.SlotLayout, logger *zap.Logger) *FloorRepository {
	return &FloorRepository{store: kv, layout: layout, logger: logger}
}

var _ ports.FloorRepository = (*FloorRepository)(nil)

// Positions of the fixed operations in the provisioning transaction.
const (
	opFloorInfo = iota
	opBuildingCounters
	provisioningFixedOps
)

// AddFloor provisions a floor in one transaction: the floor info (must not exist),
// the building counters (building must exist) and as many slots as fit. Slots that
// do not fit are written afterwards with idempotent conditional puts.
func (r *FloorRepository) AddFloor(ctx context.Context, buildingID string, floorNumber int) (*entities.Floor, error) {
	total := r.layout.Len()
	floor := &entities.Floor{
		BuildingID:     buildingID,
		FloorNumber:    floorNumber,
		TotalSlots:     total,
		AvailableSlots: total,
	}

	floorInfo, err := marshalItem(newFloorItem(floor))
	if err != nil {
		return nil, err
	}
	slots, err := r.slotItems(buildingID, floorNumber)
	if err != nil {
		return nil, err
	}

	counters := store.Increment(attrTotalFloors, 1).
		Increment(attrTotalSlots, int64(total)).
		Increment(attrAvailableSlots, int64(total))

	ops := make([]store.Operation, 0, store.MaxTransactItems)
	ops = append(ops,
		store.Put(floorInfo, store.ItemNotExists()),
		store.UpdateOp(BuildingKey(buildingID), counters, store.ItemExists()),
	)
	inline := min(len(slots), store.MaxTransactItems-provisioningFixedOps)
	for _, slot := range slots[:inline] {
		ops = append(ops, store.Put(slot, store.ItemNotExists()))
	}
	overflow := slots[inline:]

	if err := r.store.TransactWrite(ctx, ops); err != nil {
		return nil, r.provisioningError(ctx, err, floor, overflow)
	}

	if err := r.putOverflowSlots(ctx, overflow); err != nil {
		return nil, err
	}

	r.logger.Info("Floor added",
		zap.String("buildingID", buildingID),
		zap.Int("floorNumber", floorNumber),
		zap.Int("slots", total),
		zap.Int("deferredSlots", len(overflow)),
	)
	return floor, nil
}

func (r *FloorRepository) provisioningError(ctx context.Context, err error, floor *entities.Floor, overflow []store.Item) error {
	tce, ok := store.AsTransactionCanceled(err)
	if !ok {
		r.logger.Error("Failed to add floor", zap.Error(err), zap.String("buildingID", floor.BuildingID))
		return storeError("AddFloor", err)
	}

	r.logger.Warn("Floor provisioning canceled",
		append(cancellationFields(err, "floorInfo", "building"),
			zap.String("buildingID", floor.BuildingID),
			zap.Int("floorNumber", floor.FloorNumber),
		)...,
	)

	if len(tce.Reasons) == 0 {
		return r.unexplainedProvisioningError(ctx, floor, overflow)
	}

	switch {
	case tce.ConditionFailedAt(opFloorInfo):
		// A previous call may have committed the floor but not its deferred slots.
		if len(overflow) > 0 {
			r.completeFloor(ctx, floor, overflow)
		}
		return pkgerrors.NewConflictError("floor already exists")
	case tce.ConditionFailedAt(opBuildingCounters):
		return pkgerrors.NewNotFoundError("building not found")
	}
	return pkgerrors.NewConflictError("floor creation failed due to conflict")
}

// unexplainedProvisioningError classifies a cancellation that came back without
// per-operation reasons by reading the building and the floor.
func (r *FloorRepository) unexplainedProvisioningError(ctx context.Context, floor *entities.Floor, overflow []store.Item) error {
	if _, err := r.store.GetItem(ctx, BuildingKey(floor.BuildingID), attrTotalFloors); errors.Is(err, store.ErrItemNotFound) {
		return pkgerrors.NewNotFoundError("building not found")
	}
	if _, err := r.store.GetItem(ctx, FloorKey(floor.BuildingID, floor.FloorNumber), attrTotalSlots); err == nil {
		if len(overflow) > 0 {
			r.completeFloor(ctx, floor, overflow)
		}
		return pkgerrors.NewConflictError("floor already exists")
	}
	return pkgerrors.NewConflictError("floor creation failed due to conflict")
}

// completeFloor writes missing deferred slots of an existing floor that has the
// same layout size.
func (r *FloorRepository) completeFloor(ctx context.Context, floor *entities.Floor, overflow []store.Item) {
	existing, err := r.GetFloor(ctx, floor.BuildingID, floor.FloorNumber)
	if err != nil || existing.TotalSlots != floor.TotalSlots {
		return
	}
	if err := r.putOverflowSlots(ctx, overflow); err != nil {
		r.logger.Warn("Failed to complete floor slots",
			zap.Error(err),
			zap.String("buildingID", floor.BuildingID),
			zap.Int("floorNumber", floor.FloorNumber),
		)
	}
}

func (r *FloorRepository) putOverflowSlots(ctx context.Context, slots []store.Item) error {
	for _, slot := range slots {
		err := r.store.PutItem(ctx, slot, store.ItemNotExists())
		if err != nil && !errors.Is(err, store.ErrConditionFailed) {
			r.logger.Error("Failed to write deferred slot", zap.Error(err))
			return storeError("AddFloor", err)
		}
	}
	return nil
}

func (r *FloorRepository) slotItems(buildingID string, floorNumber int) ([]store.Item, error) {
	items := make([]store.Item, 0, r.layout.Len())
	for id := 1; id <= r.layout.Len(); id++ {
		item, err := marshalItem(newSlotItem(&entities.Slot{
			BuildingID:  buildingID,
			FloorNumber: floorNumber,
			SlotID:      id,
			Type:        r.layout.TypeOf(id),
		}))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetFloor fails with NotFound "floor not found".
func (r *FloorRepository) GetFloor(ctx context.Context, buildingID string, floorNumber int) (*entities.Floor, error) {
	raw, err := r.store.GetItem(ctx, FloorKey(buildingID, floorNumber))
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("floor not found")
	}
	if err != nil {
		return nil, storeError("GetFloor", err)
	}

	var item floorItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, storeError("GetFloor", err)
	}
	return item.toEntity(), nil
}

// GetFloors returns the building's floors in key order.
func (r *FloorRepository) GetFloors(ctx context.Context, buildingID string) ([]*entities.Floor, error) {
	raw, err := r.store.Query(ctx, store.Query{PK: buildingPK(buildingID), SKPrefix: floorInfoPrefix})
	if err != nil {
		return nil, storeError("GetFloors", err)
	}
	items, err := unmarshalItems[floorItem](raw)
	if err != nil {
		return nil, storeError("GetFloors", err)
	}

	floors := make([]*entities.Floor, 0, len(items))
	for _, item := range items {
		floors = append(floors, item.toEntity())
	}
	return floors, nil
}
