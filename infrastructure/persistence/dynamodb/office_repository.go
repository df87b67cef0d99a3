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

// OfficeRepository implements ports.OfficeRepository.
type OfficeRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewOfficeRepository creates a new OfficeRepository
func NewOfficeRepository(kv store.KeyValueStore, logger *zap.Logger) *OfficeRepository {
	return &OfficeRepository{store: kv, logger: logger}
}

var _ ports.OfficeRepository = (*OfficeRepository)(nil)

// AddOffice puts the office and links its floor in one transaction. The floor must
// exist and must not already host an office.
func (r *OfficeRepository) AddOffice(ctx context.Context, office *entities.Office) error {
	item, err := marshalItem(newOfficeItem(office))
	if err != nil {
		return err
	}

	err = r.store.TransactWrite(ctx, []store.Operation{
		store.Put(item, store.ItemNotExists()),
		store.UpdateOp(
			FloorKey(office.BuildingID, office.FloorNumber),
			store.Set(attrOfficeID, office.ID),
			store.And(store.ItemExists(), store.NotExists(attrOfficeID)),
		),
	})
	if _, canceled := store.AsTransactionCanceled(err); canceled {
		r.logger.Warn("Office creation canceled",
			append(cancellationFields(err, "office", "floor"), zap.String("officeID", office.ID))...,
		)
		return pkgerrors.NewConflictError("office creation failed due to conflict")
	}
	if err != nil {
		r.logger.Error("Failed to add office", zap.Error(err), zap.String("officeID", office.ID))
		return storeError("AddOffice", err)
	}

	r.logger.Info("Office added",
		zap.String("officeID", office.ID),
		zap.String("buildingID", office.BuildingID),
		zap.Int("floorNumber", office.FloorNumber),
	)
	return nil
}

// GetOfficeByID fails with NotFound "office not found".
func (r *OfficeRepository) GetOfficeByID(ctx context.Context, officeID string) (*entities.Office, error) {
	raw, err := r.store.GetItem(ctx, OfficeKey(officeID))
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("office not found")
	}
	if err != nil {
		return nil, storeError("GetOfficeByID", err)
	}

	var item officeItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, storeError("GetOfficeByID", err)
	}
	return item.toEntity(), nil
}

// GetOffices lists all offices.
func (r *OfficeRepository) GetOffices(ctx context.Context) ([]*entities.Office, error) {
	raw, err := r.store.Query(ctx, store.Query{PK: officeRegistryPK, SKPrefix: officePrefix})
	if err != nil {
		return nil, storeError("GetOffices", err)
	}
	items, err := unmarshalItems[officeItem](raw)
	if err != nil {
		return nil, storeError("GetOffices", err)
	}

	offices := make([]*entities.Office, 0, len(items))
	for _, item := range items {
		offices = append(offices, item.toEntity())
	}
	return offices, nil
}

// DeleteOffice removes the office and clears its floor link in one transaction.
func (r *OfficeRepository) DeleteOffice(ctx context.Context, officeID string) error {
	office, err := r.GetOfficeByID(ctx, officeID)
	if err != nil {
		return err
	}

	err = r.store.TransactWrite(ctx, []store.Operation{
		store.Delete(OfficeKey(officeID), store.ItemExists()),
		store.UpdateOp(
			FloorKey(office.BuildingID, office.FloorNumber),
			store.Remove(attrOfficeID),
			store.Equal(attrOfficeID, officeID),
		),
	})
	if _, canceled := store.AsTransactionCanceled(err); canceled {
		r.logger.Warn("Office deletion canceled",
			append(cancellationFields(err, "office", "floor"), zap.String("officeID", officeID))...,
		)
		return pkgerrors.NewConflictError("office deletion failed due to conflict")
	}
	if err != nil {
		r.logger.Error("Failed to delete office", zap.Error(err), zap.String("officeID", officeID))
		return storeError("DeleteOffice", err)
	}

	r.logger.Info("Office deleted", zap.String("officeID", officeID))
	return nil
}
