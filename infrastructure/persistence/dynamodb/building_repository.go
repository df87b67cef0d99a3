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

// BuildingRepository implements ports.BuildingRepository.
type BuildingRepository struct {
	store  store.KeyValueStore
	logger *zap.Logger
}

// NewBuildingRepository creates a new BuildingRepository
func NewBuildingRepository(kv store.KeyValueStore, logger *zap.Logger) *BuildingRepository {
	return &BuildingRepository{store: kv, logger: logger}
}

var _ ports.BuildingRepository = (*BuildingRepository)(nil)

// AddBuilding writes a new building with zeroed counters.
func (r *BuildingRepository) AddBuilding(ctx context.Context, building *entities.Building) error {
	item, err := marshalItem(newBuildingItem(building))
	if err != nil {
		return err
	}

	err = r.store.PutItem(ctx, item, store.ItemNotExists())
	if errors.Is(err, store.ErrConditionFailed) {
		return pkgerrors.NewConflictError("building already exists")
	}
	if err != nil {
		r.logger.Error("Failed to add building", zap.Error(err), zap.String("buildingID", building.ID))
		return storeError("AddBuilding", err)
	}

	r.logger.Info("Building added",
		zap.String("buildingID", building.ID),
		zap.String("name", building.Name),
	)
	return nil
}

// GetBuildingByID fails with NotFound "building not found".
func (r *BuildingRepository) GetBuildingByID(ctx context.Context, buildingID string) (*entities.Building, error) {
	raw, err := r.store.GetItem(ctx, BuildingKey(buildingID))
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, pkgerrors.NewNotFoundError("building not found")
	}
	if err != nil {
		return nil, storeError("GetBuildingByID", err)
	}

	var item buildingItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, storeError("GetBuildingByID", err)
	}
	return item.toEntity(), nil
}

// GetBuildings lists the registry in key order.
func (r *BuildingRepository) GetBuildings(ctx context.Context) ([]*entities.Building, error) {
	raw, err := r.store.Query(ctx, store.Query{PK: buildingRegistryPK, SKPrefix: buildingPrefix})
	if err != nil {
		return nil, storeError("GetBuildings", err)
	}
	items, err := unmarshalItems[buildingItem](raw)
	if err != nil {
		return nil, storeError("GetBuildings", err)
	}

	buildings := make([]*entities.Building, 0, len(items))
	for _, item := range items {
		buildings = append(buildings, item.toEntity())
	}
	return buildings, nil
}
