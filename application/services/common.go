package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parkwise/application/ports"
	"parkwise/domain/events"
)

// publishEvent sends a committed change to the event bus. Publishing is best
// effort: the write already succeeded, so failures are only logged.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

// recordOperation is deferred by write operations with a pointer to their named
// error result.
func recordOperation(ctx context.Context, metrics ports.MetricsRecorder, operation string, start time.Time, errp *error) {
	if metrics == nil {
		return
	}
	metrics.RecordOperation(ctx, operation, time.Since(start), *errp)
}

// buildingNames resolves building names once per response.
type buildingNames struct {
	repo  ports.BuildingRepository
	names map[string]string
}

func newBuildingNames(repo ports.BuildingRepository) *buildingNames {
	return &buildingNames{repo: repo, names: make(map[string]string)}
}

func (b *buildingNames) lookup(ctx context.Context, buildingID string) (string, error) {
	if name, ok := b.names[buildingID]; ok {
		return name, nil
	}
	building, err := b.repo.GetBuildingByID(ctx, buildingID)
	if err != nil {
		return "", err
	}
	b.names[buildingID] = building.Name
	return building.Name, nil
}
