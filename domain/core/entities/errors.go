package entities

import "errors"

// ErrSlotUnavailable reports that a slot chosen for a new vehicle was claimed by
// someone else before the claim committed. Callers may try another slot.
var ErrSlotUnavailable = errors.New("slot is no longer available")
