package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process KeyValueStore. Every call runs under one mutex, so
// conditions and transactions are evaluated and applied atomically just like the
// real table would.
type MemoryStore struct {
	mu    sync.Mutex
	items map[Key]Item
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[Key]Item)}
}

// GetItem implements KeyValueStore.
func (s *MemoryStore) GetItem(ctx context.Context, key Key, projection ...string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return nil, ErrItemNotFound
	}
	return project(item, projection), nil
}

// PutItem implements KeyValueStore.
func (s *MemoryStore) PutItem(ctx context.Context, item Item, cond Condition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, ok := KeyOf(item)
	if !ok {
		return ErrInvalidItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok, err := cond.evaluate(s.current(key)); err != nil {
		return err
	} else if !ok {
		return ErrConditionFailed
	}
	s.items[key] = copyItem(item)
	return nil
}

// UpdateItem implements KeyValueStore.
func (s *MemoryStore) UpdateItem(ctx context.Context, key Key, update Update, cond Condition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current(key)
	if ok, err := cond.evaluate(current); err != nil {
		return err
	} else if !ok {
		return ErrConditionFailed
	}
	next, err := update.apply(key, current)
	if err != nil {
		return err
	}
	s.items[key] = next
	return nil
}

// DeleteItem implements KeyValueStore.
func (s *MemoryStore) DeleteItem(ctx context.Context, key Key, cond Condition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok, err := cond.evaluate(s.current(key)); err != nil {
		return err
	} else if !ok {
		return ErrConditionFailed
	}
	delete(s.items, key)
	return nil
}

// Query implements KeyValueStore.
func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]Key, 0)
	for key := range s.items {
		if key.PK != q.PK {
			continue
		}
		if q.SKPrefix != "" && !strings.HasPrefix(key.SK, q.SKPrefix) {
			continue
		}
		if q.SKBetween != nil && (key.SK < q.SKBetween.From || key.SK > q.SKBetween.To) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if q.Descending {
			return keys[i].SK > keys[j].SK
		}
		return keys[i].SK < keys[j].SK
	})

	result := make([]Item, 0, len(keys))
	for _, key := range keys {
		item := s.items[key]
		ok, err := q.Filter.evaluate(item)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result = append(result, copyItem(item))
		if q.Limit > 0 && len(result) == q.Limit {
			break
		}
	}
	return result, nil
}

// TransactWrite implements KeyValueStore. All conditions are evaluated against
// the state before the transaction; writes are applied only if every one holds.
func (s *MemoryStore) TransactWrite(ctx context.Context, ops []Operation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateTransaction(ops); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reasons := make([]CancellationReason, len(ops))
	canceled := false
	for i, op := range ops {
		reasons[i] = CancellationReason{Code: ReasonNone}
		ok, err := op.Condition.evaluate(s.current(op.Key))
		if err != nil {
			return err
		}
		if !ok {
			reasons[i] = CancellationReason{
				Code:    ReasonConditionalCheckFailed,
				Message: "The conditional request failed",
			}
			canceled = true
		}
	}
	if canceled {
		return &TransactionCanceledError{Reasons: reasons}
	}

	staged := make(map[Key]Item, len(ops))
	for _, op := range ops {
		switch op.Type {
		case OperationPut:
			staged[op.Key] = copyItem(op.Item)
		case OperationUpdate:
			next, err := op.Update.apply(op.Key, s.current(op.Key))
			if err != nil {
				return err
			}
			staged[op.Key] = next
		case OperationDelete:
			staged[op.Key] = nil
		}
	}
	for key, item := range staged {
		if item == nil {
			delete(s.items, key)
			continue
		}
		s.items[key] = item
	}
	return nil
}

// Len returns the number of stored items.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore) current(key Key) Item {
	item, ok := s.items[key]
	if !ok {
		return nil
	}
	return item
}

func copyItem(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func project(item Item, projection []string) Item {
	if len(projection) == 0 {
		return copyItem(item)
	}
	out := make(Item, len(projection))
	for _, name := range projection {
		if v, ok := item[name]; ok {
			out[name] = v
		}
	}
	return out
}
