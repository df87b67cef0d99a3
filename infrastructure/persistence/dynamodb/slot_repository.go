package dynamodb

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/infrastructure/persistence/store"
	pkgerrors "parkwise/pkg/errors"
)

// SlotRepository implements ports.SlotRepository.
type SlotRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(kv store.KeyValueStore, logger *zap.Logger) *SlotRepository {
	return &SlotRepository{store: kv, logger: logger}
}

var _ ports.SlotRepository = (*SlotRepository)(nil)

// GetSlotsByFloor returns every slot of the floor ordered by numeric slot id.
func (r *SlotRepository) GetSlotsByFloor(ctx context.Context, buildingID string, floorNumber int) ([]*entities.Slot, error) {
	raw, err := r.store.Query(ctx, store.Query{PK: buildingPK(buildingID), SKPrefix: slotPrefix(floorNumber)})
	if err != nil {
		return nil, storeError("GetSlotsByFloor", err)
	}
	items, err := unmarshalItems[slotItem](raw)
	if err != nil {
		return nil, storeError("GetSlotsByFloor", err)
	}

	slots := make([]*entities.Slot, 0, len(items))
	for _, item := range items {
		slots = append(slots, item.toEntity(buildingID, floorNumber))
	}
	sortSlots(slots)
	return slots, nil
}

// GetFreeSlotsByFloor returns unassigned slots ordered by slot id.
func (r *SlotRepository) GetFreeSlotsByFloor(ctx context.Context, buildingID string, floorNumber int) ([]*entities.Slot, error) {
	slots, err := r.GetSlotsByFloor(ctx, buildingID, floorNumber)
	if err != nil {
		return nil, err
	}
	free := slots[:0]
	for _, s := range slots {
		if !s.IsAssigned {
			free = append(free, s)
		}
	}
	return free, nil
}

// UpdateSlot writes the slot's assignment flag and count. An unassigned slot
// always has a zero count.
func (r *SlotRepository) UpdateSlot(ctx context.Context, slot *entities.Slot) error {
	count := slot.AssignedCount
	if !slot.IsAssigned {
		count = 0
	} else if count < 1 {
		count = 1
	}
	err := r.store.UpdateItem(ctx,
		SlotKey(slot.BuildingID, slot.FloorNumber, slot.SlotID),
		store.Set(attrIsAssigned, slot.IsAssigned).Set(attrAssignedCount, count),
		store.ItemExists(),
	)
	return r.slotUpdateError("UpdateSlot", err)
}

// UpdateSlotOccupancy sets or clears the occupant snapshot.
func (r *SlotRepository) UpdateSlotOccupancy(ctx context.Context, ref entities.SlotRef, occupant *entities.Occupant) error {
	update := store.Set(attrIsOccupied, occupant != nil)
	if occupant != nil {
		update = update.Set(attrOccupiedBy, newOccupantItem(occupant))
	} else {
		update = update.Remove(attrOccupiedBy)
	}

	err := r.store.UpdateItem(ctx, SlotKey(ref.BuildingID, ref.FloorNumber, ref.SlotID), update, store.ItemExists())
	return r.slotUpdateError("UpdateSlotOccupancy", err)
}

func (r *SlotRepository) slotUpdateError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrConditionFailed) {
		return pkgerrors.NewNotFoundError("slot not found")
	}
	r.logger.Error("Failed to update slot", zap.String("operation", operation), zap.Error(err))
	return storeError(operation, err)
}
