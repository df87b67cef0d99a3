package store

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type condOp int

const (
	condNone condOp = iota
	condExists
	condNotExists
	condEqual
	condGreater
	condLess
	condLessAttr
	condAnd
)

// Condition is a predicate over the current state of one item. The zero value
// means "no condition".
type Condition struct {
	op       condOp
	name     string
	value    interface{}
	other    string
	children []Condition
}

// IsZero reports whether c carries no predicate.
func (c Condition) IsZero() bool {
	return c.op == condNone
}

// Exists holds when the attribute is present.
func Exists(name string) Condition {
	return Condition{op: condExists, name: name}
}

// NotExists holds when the attribute is absent.
func NotExists(name string) Condition {
	return Condition{op: condNotExists, name: name}
}

// ItemExists holds when the item is present.
func ItemExists() Condition {
	return Exists(AttrPK)
}

// ItemNotExists holds when the item is absent.
func ItemNotExists() Condition {
	return NotExists(AttrPK)
}

// Equal holds when the attribute equals value.
func Equal(name string, value interface{}) Condition {
	return Condition{op: condEqual, name: name, value: value}
}

// GreaterThan holds when the attribute is greater than value.
func GreaterThan(name string, value interface{}) Condition {
	return Condition{op: condGreater, name: name, value: value}
}

// LessThan holds when the attribute is less than value.
func LessThan(name string, value interface{}) Condition {
	return Condition{op: condLess, name: name, value: value}
}

// LessThanAttribute holds when attribute name is less than attribute other of the same item.
func LessThanAttribute(name, other string) Condition {
	return Condition{op: condLessAttr, name: name, other: other}
}

// And holds when every non-zero condition holds.
func And(conds ...Condition) Condition {
	children := make([]Condition, 0, len(conds))
	for _, c := range conds {
		switch {
		case c.IsZero():
		case c.op == condAnd:
			children = append(children, c.children...)
		default:
			children = append(children, c)
		}
	}
	switch len(children) {
	case 0:
		return Condition{}
	case 1:
		return children[0]
	}
	return Condition{op: condAnd, children: children}
}

// builder translates the condition into a DynamoDB expression builder.
func (c Condition) builder() (expression.ConditionBuilder, error) {
	switch c.op {
	case condExists:
		return expression.AttributeExists(expression.Name(c.name)), nil
	case condNotExists:
		return expression.AttributeNotExists(expression.Name(c.name)), nil
	case condEqual:
		return expression.Name(c.name).Equal(expression.Value(c.value)), nil
	case condGreater:
		return expression.Name(c.name).GreaterThan(expression.Value(c.value)), nil
	case condLess:
		return expression.Name(c.name).LessThan(expression.Value(c.value)), nil
	case condLessAttr:
		return expression.Name(c.name).LessThan(expression.Name(c.other)), nil
	case condAnd:
		builders := make([]expression.ConditionBuilder, 0, len(c.children))
		for _, child := range c.children {
			b, err := child.builder()
			if err != nil {
				return expression.ConditionBuilder{}, err
			}
			builders = append(builders, b)
		}
		if len(builders) < 2 {
			return expression.ConditionBuilder{}, fmt.Errorf("and condition needs at least two operands")
		}
		return expression.And(builders[0], builders[1], builders[2:]...), nil
	}
	return expression.ConditionBuilder{}, fmt.Errorf("unsupported condition operator %d", c.op)
}

// evaluate checks the condition against item, which is nil when the item is absent.
func (c Condition) evaluate(item Item) (bool, error) {
	switch c.op {
	case condNone:
		return true, nil
	case condExists:
		_, ok := item[c.name]
		return ok, nil
	case condNotExists:
		_, ok := item[c.name]
		return !ok, nil
	case condEqual, condGreater, condLess:
		current, ok := item[c.name]
		if !ok {
			return false, nil
		}
		want, err := attributevalue.Marshal(c.value)
		if err != nil {
			return false, fmt.Errorf("failed to marshal condition value for %s: %w", c.name, err)
		}
		if c.op == condEqual {
			return attributesEqual(current, want), nil
		}
		cmp, comparable := compareAttributes(current, want)
		if !comparable {
			return false, nil
		}
		if c.op == condGreater {
			return cmp > 0, nil
		}
		return cmp < 0, nil
	case condLessAttr:
		left, ok := item[c.name]
		if !ok {
			return false, nil
		}
		right, ok := item[c.other]
		if !ok {
			return false, nil
		}
		cmp, comparable := compareAttributes(left, right)
		return comparable && cmp < 0, nil
	case condAnd:
		for _, child := range c.children {
			ok, err := child.evaluate(item)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	return false, fmt.Errorf("unsupported condition operator %d", c.op)
}

func attributesEqual(a, b types.AttributeValue) bool {
	if cmp, ok := compareAttributes(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareAttributes orders two scalar attributes of the same type.
func compareAttributes(a, b types.AttributeValue) (int, bool) {
	switch av := a.(type) {
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return 0, false
		}
		x, okX := new(big.Rat).SetString(av.Value)
		y, okY := new(big.Rat).SetString(bv.Value)
		if !okX || !okY {
			return 0, false
		}
		return x.Cmp(y), true
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		if !ok {
			return 0, false
		}
		switch {
		case av.Value < bv.Value:
			return -1, true
		case av.Value > bv.Value:
			return 1, true
		}
		return 0, true
	case *types.AttributeValueMemberB:
		bv, ok := b.(*types.AttributeValueMemberB)
		if !ok {
			return 0, false
		}
		return bytes.Compare(av.Value, bv.Value), true
	}
	return 0, false
}
