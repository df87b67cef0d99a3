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

// VehicleRepository implements ports.VehicleRepository.
type VehicleRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(kv store.KeyValueStore, logger *zap.Logger) *VehicleRepository {
	return &VehicleRepository{store: kv, logger: logger}
}

var _ ports.VehicleRepository = (*VehicleRepository)(nil)

// GetVehicle fails with NotFound "vehicle not found".
func (r *VehicleRepository) GetVehicle(ctx context.Context, userID, numberplate string) (*entities.Vehicle, error) {
	raw, err := r.store.GetItem(ctx, VehicleKey(userID, entities.NormalizeNumberplate(numberplate)))
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("vehicle not found")
	}
	if err != nil {
		return nil, storeError("GetVehicle", err)
	}

	var item vehicleItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, storeError("GetVehicle", err)
	}
	return item.toEntity(userID), nil
}

// GetVehiclesByUser lists a user's vehicles in numberplate order.
func (r *VehicleRepository) GetVehiclesByUser(ctx context.Context, userID string) ([]*entities.Vehicle, error) {
	raw, err := r.store.Query(ctx, store.Query{PK: userPK(userID), SKPrefix: vehiclePrefix})
	if err != nil {
		return nil, storeError("GetVehiclesByUser", err)
	}
	items, err := unmarshalItems[vehicleItem](raw)
	if err != nil {
		return nil, storeError("GetVehiclesByUser", err)
	}

	vehicles := make([]*entities.Vehicle, 0, len(items))
	for _, item := range items {
		vehicles = append(vehicles, item.toEntity(userID))
	}
	return vehicles, nil
}

// RegisterVehicle saves the vehicle and binds its slot in one transaction.
func (r *VehicleRepository) RegisterVehicle(ctx context.Context, vehicle *entities.Vehicle, assignment ports.SlotAssignment) error {
	if vehicle.AssignedSlot == nil {
		return pkgerrors.NewValidationError("vehicle has no slot to register against")
	}
	item, err := marshalItem(newVehicleItem(vehicle))
	if err != nil {
		return err
	}

	ref := vehicle.AssignedSlot
	slotKey := SlotKey(ref.BuildingID, ref.FloorNumber, ref.SlotID)

	var bind store.Operation
	switch assignment {
	case ports.ClaimFreeSlot:
		bind = store.UpdateOp(slotKey,
			store.Set(attrIsAssigned, true).Set(attrAssignedCount, 1),
			store.And(store.ItemExists(), store.Equal(attrIsAssigned, false)),
		)
	case ports.ShareAssignedSlot:
		bind = store.UpdateOp(slotKey,
			store.Increment(attrAssignedCount, 1),
			store.And(store.Equal(attrIsAssigned, true), store.Exists(attrAssignedCount)),
		)
	default:
		return pkgerrors.NewInternalError("unknown slot assignment")
	}

	err = r.store.TransactWrite(ctx, []store.Operation{
		bind,
		store.Put(item, store.ItemNotExists()),
	})
	if tce, canceled := store.AsTransactionCanceled(err); canceled {
		r.logger.Warn("Vehicle registration canceled",
			append(cancellationFields(err, "slot", "vehicle"),
				zap.String("userID", vehicle.UserID),
				zap.String("numberplate", vehicle.Numberplate),
			)...,
		)
		// A duplicate plate is reported before a lost slot race.
		if tce.ConditionFailedAt(1) {
			return pkgerrors.NewConflictError("vehicle already registered")
		}
		if tce.ConditionFailedAt(0) {
			return pkgerrors.NewConflictError(entities.ErrSlotUnavailable.Error()).WithCause(entities.ErrSlotUnavailable)
		}
		return pkgerrors.NewConflictError("vehicle registration failed due to conflict")
	}
	if err != nil {
		r.logger.Error("Failed to register vehicle", zap.Error(err), zap.String("userID", vehicle.UserID))
		return storeError("RegisterVehicle", err)
	}

	r.logger.Info("Vehicle registered",
		zap.String("userID", vehicle.UserID),
		zap.String("numberplate", vehicle.Numberplate),
		zap.String("buildingID", ref.BuildingID),
		zap.Int("floorNumber", ref.FloorNumber),
		zap.Int("slotID", ref.SlotID),
	)
	return nil
}

// deleteAttempts bounds retries when a sibling registration changes the slot's
// assignment count between the read and the delete transaction.
const deleteAttempts = 3

// DeleteVehicle removes an unparked vehicle and drops its binding on the slot.
// The slot is released only when the vehicle held the last binding; the count
// read beforehand is re-checked inside the transaction.
func (r *VehicleRepository) DeleteVehicle(ctx context.Context, userID, numberplate string) error {
	numberplate = entities.NormalizeNumberplate(numberplate)

	for attempt := 1; ; attempt++ {
		target, err := r.GetVehicle(ctx, userID, numberplate)
		if err != nil {
			return err
		}
		if target.IsParked {
			return pkgerrors.NewConflictError("vehicle is currently parked")
		}

		ops := []store.Operation{
			store.Delete(VehicleKey(userID, numberplate),
				store.And(store.ItemExists(), store.Equal(attrIsParked, false)),
			),
		}
		released := false
		if target.AssignedSlot != nil {
			unbind, release, ok, err := r.slotUnbindOp(ctx, *target.AssignedSlot)
			if err != nil {
				return err
			}
			if ok {
				ops = append(ops, unbind)
				released = release
			}
		}

		err = r.store.TransactWrite(ctx, ops)
		if tce, canceled := store.AsTransactionCanceled(err); canceled {
			if !tce.ConditionFailedAt(0) && tce.ConditionFailedAt(1) && attempt < deleteAttempts {
				r.logger.Debug("Slot binding changed during vehicle deletion, retrying",
					zap.String("numberplate", numberplate),
					zap.Int("attempt", attempt),
				)
				continue
			}
			r.logger.Warn("Vehicle deletion canceled",
				append(cancellationFields(err, "vehicle", "slot"), zap.String("numberplate", numberplate))...,
			)
			return pkgerrors.NewConflictError("vehicle deletion failed due to conflict")
		}
		if err != nil {
			r.logger.Error("Failed to delete vehicle", zap.Error(err), zap.String("userID", userID))
			return storeError("DeleteVehicle", err)
		}

		r.logger.Info("Vehicle deleted",
			zap.String("userID", userID),
			zap.String("numberplate", numberplate),
			zap.Bool("slotReleased", released),
		)
		return nil
	}
}

// slotUnbindOp builds the update that drops one binding from the slot. It
// reports whether the update releases the slot, and ok=false when the slot no
// longer exists or is already unassigned.
func (r *VehicleRepository) slotUnbindOp(ctx context.Context, ref entities.SlotRef) (op store.Operation, release, ok bool, err error) {
	key := SlotKey(ref.BuildingID, ref.FloorNumber, ref.SlotID)
	raw, err := r.store.GetItem(ctx, key)
	if errors.Is(err, store.ErrItemNotFound) {
		return store.Operation{}, false, false, nil
	}
	if err != nil {
		return store.Operation{}, false, false, storeError("DeleteVehicle", err)
	}

	var slot slotItem
	if err := unmarshalItem(raw, &slot); err != nil {
		return store.Operation{}, false, false, storeError("DeleteVehicle", err)
	}
	if !slot.IsAssigned {
		return store.Operation{}, false, false, nil
	}

	// Slots written before counts existed carry no AssignedCount and hold one binding.
	unchanged := store.NotExists(attrAssignedCount)
	if _, counted := raw[attrAssignedCount]; counted {
		unchanged = store.Equal(attrAssignedCount, slot.AssignedCount)
	}

	if slot.AssignedCount <= 1 {
		return store.UpdateOp(key,
			store.Set(attrIsAssigned, false).Set(attrAssignedCount, 0),
			store.And(store.Equal(attrIsAssigned, true), unchanged),
		), true, true, nil
	}
	return store.UpdateOp(key,
		store.Increment(attrAssignedCount, -1),
		store.And(store.Equal(attrIsAssigned, true), unchanged),
	), false, true, nil
}
