package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds the circuit breaker settings for the table client.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings used when nothing is configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "parking-table",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreakerStore decorates a KeyValueStore with a circuit breaker. Business
// outcomes (missing items, failed conditions, canceled transactions) count as
// successful calls; only infrastructure failures move the breaker.
type CircuitBreakerStore struct {
	next    KeyValueStore
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewCircuitBreakerStore wraps next.
func NewCircuitBreakerStore(next KeyValueStore, cfg BreakerConfig, logger *zap.Logger) *CircuitBreakerStore {
	s := &CircuitBreakerStore{next: next, logger: logger}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isBreakerSuccess,
	})
	return s
}

// State returns the current breaker state.
func (s *CircuitBreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrConditionFailed) ||
		errors.Is(err, ErrTransactionCanceled) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, context.Canceled)
}

func (s *CircuitBreakerStore) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		s.logger.Warn("Store call rejected by circuit breaker", zap.String("operation", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	return result, err
}

// GetItem implements KeyValueStore.
func (s *CircuitBreakerStore) GetItem(ctx context.Context, key Key, projection ...string) (Item, error) {
	result, err := s.execute("GetItem", func() (interface{}, error) {
		return s.next.GetItem(ctx, key, projection...)
	})
	if err != nil {
		return nil, err
	}
	return result.(Item), nil
}

// PutItem implements KeyValueStore.
func (s *CircuitBreakerStore) PutItem(ctx context.Context, item Item, cond Condition) error {
	_, err := s.execute("PutItem", func() (interface{}, error) {
		return nil, s.next.PutItem(ctx, item, cond)
	})
	return err
}

// UpdateItem implements KeyValueStore.
func (s *CircuitBreakerStore) UpdateItem(ctx context.Context, key Key, update Update, cond Condition) error {
	_, err := s.execute("UpdateItem", func() (interface{}, error) {
		return nil, s.next.UpdateItem(ctx, key, update, cond)
	})
	return err
}

// DeleteItem implements KeyValueStore.
func (s *CircuitBreakerStore) DeleteItem(ctx context.Context, key Key, cond Condition) error {
	_, err := s.execute("DeleteItem", func() (interface{}, error) {
		return nil, s.next.DeleteItem(ctx, key, cond)
	})
	return err
}

// Query implements KeyValueStore.
func (s *CircuitBreakerStore) Query(ctx context.Context, q Query) ([]Item, error) {
	result, err := s.execute("Query", func() (interface{}, error) {
		return s.next.Query(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// TransactWrite implements KeyValueStore.
func (s *CircuitBreakerStore) TransactWrite(ctx context.Context, ops []Operation) error {
	_, err := s.execute("TransactWrite", func() (interface{}, error) {
		return nil, s.next.TransactWrite(ctx, ops)
	})
	return err
}
