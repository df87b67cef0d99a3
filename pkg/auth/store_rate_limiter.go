package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"parkwise/infrastructure/persistence/store"
)

const attrCount = "Count"

// StoreRateLimiter counts attempts in fixed windows kept in the table, so the
// limit holds across Lambda instances.
type StoreRateLimiter struct {
	kv        store.KeyValueStore
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
}

type rateLimitItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Count     int    `dynamodbav:"Count"`
	ExpiresAt int64  `dynamodbav:"ExpiresAt"`
}

// NewStoreRateLimiter creates a limiter admitting limit attempts per window.
func NewStoreRateLimiter(kv store.KeyValueStore, keyPrefix string, limit int, window time.Duration) *StoreRateLimiter {
	return &StoreRateLimiter{
		kv:        kv,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (r *StoreRateLimiter) windowKey(key string) (store.Key, time.Time) {
	windowStart := r.now().Truncate(r.window)
	return store.Key{
		PK: fmt.Sprintf("RATELIMIT#%s#%s", r.keyPrefix, key),
		SK: fmt.Sprintf("WINDOW#%d", windowStart.Unix()),
	}, windowStart.Add(r.window)
}

// Allow opens the window with a conditional put and otherwise increments the
// counter while it is below the limit. Store errors fail open.
func (r *StoreRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return false, nil
	}
	k, windowEnd := r.windowKey(key)

	item, err := attributevalue.MarshalMap(rateLimitItem{
		PK:        k.PK,
		SK:        k.SK,
		Count:     1,
		ExpiresAt: windowEnd.Add(time.Hour).Unix(),
	})
	if err != nil {
		return true, fmt.Errorf("failed to marshal rate limit entry (failing open): %w", err)
	}

	err = r.kv.PutItem(ctx, item, store.ItemNotExists())
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, store.ErrConditionFailed) {
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}

	err = r.kv.UpdateItem(ctx, k, store.Increment(attrCount, 1), store.LessThan(attrCount, r.limit))
	if errors.Is(err, store.ErrConditionFailed) {
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}
	return true, nil
}

// Reset clears the current window for key.
func (r *StoreRateLimiter) Reset(ctx context.Context, key string) error {
	k, _ := r.windowKey(key)
	return r.kv.DeleteItem(ctx, k, store.Condition{})
}
