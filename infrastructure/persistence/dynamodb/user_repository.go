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

// UserRepository implements ports.UserRepository. The email index item
// (USER / email) anchors email uniqueness.
type UserRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(kv store.KeyValueStore, logger *zap.Logger) *UserRepository {
	return &UserRepository{store: kv, logger: logger}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// SaveUser writes the email index and the profile together, so a duplicate email
// leaves no orphan profile behind.
func (r *UserRepository) SaveUser(ctx context.Context, user *entities.User) error {
	emailKey := EmailKey(user.Email)
	index, err := marshalItem(emailIndexItem{PK: emailKey.PK, SK: emailKey.SK, UUID: user.ID})
	if err != nil {
		return err
	}
	profile, err := marshalItem(newProfileItem(user))
	if err != nil {
		return err
	}

	err = r.store.TransactWrite(ctx, []store.Operation{
		store.Put(index, store.ItemNotExists()),
		store.Put(profile, store.ItemNotExists()),
	})
	if _, canceled := store.AsTransactionCanceled(err); canceled {
		r.logger.Warn("User registration canceled", cancellationFields(err, "emailIndex", "profile")...)
		return pkgerrors.NewConflictError("user already exists")
	}
	if err != nil {
		r.logger.Error("Failed to save user", zap.Error(err), zap.String("userID", user.ID))
		return storeError("SaveUser", err)
	}

	r.logger.Info("User saved", zap.String("userID", user.ID), zap.String("role", string(user.Role)))
	return nil
}

// GetByEmail resolves the email index, then loads the profile.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	raw, err := r.store.GetItem(ctx, EmailKey(entities.NormalizeEmail(email)), attrUUID)
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, storeError("GetByEmail", err)
	}

	var index emailIndexItem
	if err := unmarshalItem(raw, &index); err != nil {
		return nil, storeError("GetByEmail", err)
	}
	return r.GetByID(ctx, index.UUID)
}

// GetByID fails with NotFound "user not found".
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	raw, err := r.store.GetItem(ctx, ProfileKey(userID))
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, storeError("GetByID", err)
	}

	var item profileItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, storeError("GetByID", err)
	}
	return item.toEntity(), nil
}
