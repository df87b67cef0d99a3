package store

import (
	"fmt"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type updateKind int

const (
	updateSet updateKind = iota
	updateIncrement
	updateRemove
)

type updateAction struct {
	kind  updateKind
	name  string
	value interface{}
	delta int64
}

// Update is an ordered list of SET / increment / REMOVE actions. Methods return
// a new Update so partially built values can be shared safely.
type Update struct {
	actions []updateAction
}

// Set starts an update that assigns value to name.
func Set(name string, value interface{}) Update {
	return Update{}.Set(name, value)
}

// Increment starts an update that adds delta to a numeric attribute.
func Increment(name string, delta int64) Update {
	return Update{}.Increment(name, delta)
}

// Remove starts an update that deletes an attribute.
func Remove(name string) Update {
	return Update{}.Remove(name)
}

// Set assigns value to name.
func (u Update) Set(name string, value interface{}) Update {
	return u.with(updateAction{kind: updateSet, name: name, value: value})
}

// Increment adds delta to the numeric attribute name, which must already exist.
func (u Update) Increment(name string, delta int64) Update {
	return u.with(updateAction{kind: updateIncrement, name: name, delta: delta})
}

// Remove deletes the attribute name.
func (u Update) Remove(name string) Update {
	return u.with(updateAction{kind: updateRemove, name: name})
}

// IsZero reports whether the update has no actions.
func (u Update) IsZero() bool {
	return len(u.actions) == 0
}

func (u Update) with(a updateAction) Update {
	actions := make([]updateAction, len(u.actions), len(u.actions)+1)
	copy(actions, u.actions)
	return Update{actions: append(actions, a)}
}

// builder translates the update into a DynamoDB update builder.
func (u Update) builder() expression.UpdateBuilder {
	var ub expression.UpdateBuilder
	for _, a := range u.actions {
		name := expression.Name(a.name)
		switch a.kind {
		case updateSet:
			ub = ub.Set(name, expression.Value(a.value))
		case updateIncrement:
			ub = ub.Set(name, name.Plus(expression.Value(a.delta)))
		case updateRemove:
			ub = ub.Remove(name)
		}
	}
	return ub
}

// apply returns a copy of item with the update applied. item may be nil.
func (u Update) apply(key Key, item Item) (Item, error) {
	out := make(Item, len(item)+len(u.actions))
	for k, v := range item {
		out[k] = v
	}
	for k, v := range key.Attributes() {
		out[k] = v
	}

	for _, a := range u.actions {
		switch a.kind {
		case updateSet:
			av, err := attributevalue.Marshal(a.value)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal %s: %w", a.name, err)
			}
			out[a.name] = av
		case updateIncrement:
			current, ok := out[a.name].(*types.AttributeValueMemberN)
			if !ok {
				return nil, fmt.Errorf("cannot increment %s: attribute missing or not a number", a.name)
			}
			n, ok := new(big.Rat).SetString(current.Value)
			if !ok {
				return nil, fmt.Errorf("cannot increment %s: invalid number %q", a.name, current.Value)
			}
			n.Add(n, new(big.Rat).SetInt64(a.delta))
			out[a.name] = &types.AttributeValueMemberN{Value: n.RatString()}
		case updateRemove:
			delete(out, a.name)
		}
	}
	return out, nil
}
