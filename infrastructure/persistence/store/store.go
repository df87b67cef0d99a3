// Package store abstracts the single wide table that holds every parking entity.
// Repositories talk to KeyValueStore; DynamoDBStore backs it in production and
// MemoryStore backs it in tests and local development.
package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of the composite primary key.
const (
	AttrPK = "PK"
	AttrSK = "SK"
)

// MaxTransactItems is the largest number of operations a single TransactWrite accepts.
const MaxTransactItems = 100

// Item is a raw table item in DynamoDB attribute form.
type Item = map[string]types.AttributeValue

// Key identifies one item by partition and sort key.
type Key struct {
	PK string
	SK string
}

// Attributes returns the key as an attribute map.
func (k Key) Attributes() Item {
	return Item{
		AttrPK: &types.AttributeValueMemberS{Value: k.PK},
		AttrSK: &types.AttributeValueMemberS{Value: k.SK},
	}
}

// KeyOf extracts the primary key from an item. ok is false when either key attribute is missing.
func KeyOf(item Item) (Key, bool) {
	pk, ok := item[AttrPK].(*types.AttributeValueMemberS)
	if !ok {
		return Key{}, false
	}
	sk, ok := item[AttrSK].(*types.AttributeValueMemberS)
	if !ok {
		return Key{}, false
	}
	return Key{PK: pk.Value, SK: sk.Value}, true
}

// Query describes a single-partition read. Exactly one of SKPrefix or SKBetween
// narrows the sort key; both empty reads the whole partition.
type Query struct {
	PK         string
	SKPrefix   string
	SKBetween  *SKRange
	Filter     Condition
	Descending bool
	// Limit caps the number of returned items after filtering. Zero means no cap.
	Limit int
}

func (q Query) validate() error {
	if q.PK == "" {
		return fmt.Errorf("%w: partition key is required", ErrInvalidQuery)
	}
	if q.SKPrefix != "" && q.SKBetween != nil {
		return fmt.Errorf("%w: SKPrefix and SKBetween are mutually exclusive", ErrInvalidQuery)
	}
	return nil
}

// SKRange is an inclusive sort key range.
type SKRange struct {
	From string
	To   string
}

// OperationType enumerates the kinds of transactional writes.
type OperationType string

const (
	OperationPut            OperationType = "PUT"
	OperationUpdate         OperationType = "UPDATE"
	OperationDelete         OperationType = "DELETE"
	OperationConditionCheck OperationType = "CONDITION_CHECK"
)

// Operation is one element of a TransactWrite call.
type Operation struct {
	Type      OperationType
	Key       Key    // Update, Delete, ConditionCheck
	Item      Item   // Put
	Update    Update // Update
	Condition Condition
}

// Put builds a transactional put.
func Put(item Item, cond Condition) Operation {
	key, _ := KeyOf(item)
	return Operation{Type: OperationPut, Key: key, Item: item, Condition: cond}
}

// UpdateOp builds a transactional update.
func UpdateOp(key Key, update Update, cond Condition) Operation {
	return Operation{Type: OperationUpdate, Key: key, Update: update, Condition: cond}
}

// Delete builds a transactional delete.
func Delete(key Key, cond Condition) Operation {
	return Operation{Type: OperationDelete, Key: key, Condition: cond}
}

// Check builds a condition check that writes nothing.
func Check(key Key, cond Condition) Operation {
	return Operation{Type: OperationConditionCheck, Key: key, Condition: cond}
}

// KeyValueStore is the contract the repositories depend on.
type KeyValueStore interface {
	// GetItem returns ErrItemNotFound when the key is absent.
	GetItem(ctx context.Context, key Key, projection ...string) (Item, error)

	// PutItem writes a full item. A failed condition returns ErrConditionFailed.
	PutItem(ctx context.Context, item Item, cond Condition) error

	// UpdateItem applies update to the item at key, creating it if absent unless
	// the condition forbids it. A failed condition returns ErrConditionFailed.
	UpdateItem(ctx context.Context, key Key, update Update, cond Condition) error

	// DeleteItem removes the item at key. A failed condition returns ErrConditionFailed.
	DeleteItem(ctx context.Context, key Key, cond Condition) error

	// Query returns items of one partition ordered by sort key.
	Query(ctx context.Context, q Query) ([]Item, error)

	// TransactWrite applies all operations atomically or none of them. A failed
	// condition returns *TransactionCanceledError.
	TransactWrite(ctx context.Context, ops []Operation) error
}

func validateTransaction(ops []Operation) error {
	if len(ops) == 0 {
		return ErrEmptyTransaction
	}
	if len(ops) > MaxTransactItems {
		return ErrTooManyOperations
	}
	seen := make(map[Key]struct{}, len(ops))
	for _, op := range ops {
		if op.Key.PK == "" || op.Key.SK == "" {
			return ErrInvalidItem
		}
		if _, dup := seen[op.Key]; dup {
			return ErrDuplicateKey
		}
		seen[op.Key] = struct{}{}
	}
	return nil
}
