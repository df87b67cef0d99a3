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

// BillingRepository implements ports.BillingRepository. Bills are written by the
// billing job; this service only reads them.
type BillingRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(kv store.KeyValueStore, logger *zap.Logger) *BillingRepository {
	return &BillingRepository{store: kv, logger: logger}
}

var _ ports.BillingRepository = (*BillingRepository)(nil)

// GetBill fails with NotFound when the bill has not been generated.
func (r *BillingRepository) GetBill(ctx context.Context, userID string, month, year int) (*entities.Bill, error) {
	raw, err := r.store.GetItem(ctx, BillKey(userID, year, month))
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("Bill not generated for this month")
	}
	if err != nil {
		r.logger.Error("Failed to get bill", zap.Error(err), zap.String("userID", userID))
		return nil, storeError("GetBill", err)
	}

	var item billItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, storeError("GetBill", err)
	}
	return item.toEntity(userID), nil
}
