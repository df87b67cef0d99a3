package valueobjects

import (
	"errors"
	"fmt"
)

// DefaultSlotLayout is the floor plan used for every new floor unless configured
// otherwise: ten two-wheeler slots followed by twenty four-wheeler slots.
const DefaultSlotLayout = "000000000011111111111111111111"

// MaxSlotsPerFloor bounds a layout.
const MaxSlotsPerFloor = 1000

// SlotLayout is an immutable floor plan. Each character describes one slot in
// order: '0' is a two-wheeler slot, '1' a four-wheeler slot.
type SlotLayout struct {
	pattern string
}

// NewSlotLayout validates pattern.
func NewSlotLayout(pattern string) (SlotLayout, error) {
	if pattern == "" {
		return SlotLayout{}, errors.New("slot layout cannot be empty")
	}
	if len(pattern) > MaxSlotsPerFloor {
		return SlotLayout{}, fmt.Errorf("slot layout has %d slots, maximum is %d", len(pattern), MaxSlotsPerFloor)
	}
	for i, c := range pattern {
		if c != '0' && c != '1' {
			return SlotLayout{}, fmt.Errorf("slot layout position %d: invalid character %q", i+1, c)
		}
	}
	return SlotLayout{pattern: pattern}, nil
}

// MustSlotLayout is NewSlotLayout for known-good constants.
func MustSlotLayout(pattern string) SlotLayout {
	layout, err := NewSlotLayout(pattern)
	if err != nil {
		panic(err)
	}
	return layout
}

// Len returns the number of slots.
func (l SlotLayout) Len() int {
	return len(l.pattern)
}

// TypeOf returns the type of the slot with the given 1-based id.
func (l SlotLayout) TypeOf(slotID int) VehicleType {
	if l.pattern[slotID-1] == '1' {
		return FourWheeler
	}
	return TwoWheeler
}

// Count returns how many slots of type t the layout holds.
func (l SlotLayout) Count(t VehicleType) int {
	n := 0
	for id := 1; id <= l.Len(); id++ {
		if l.TypeOf(id) == t {
			n++
		}
	}
	return n
}

func (l SlotLayout) String() string {
	return l.pattern
}
