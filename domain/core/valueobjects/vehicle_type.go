package valueobjects

import "fmt"

// VehicleType classifies both vehicles and the slots that can hold them.
type VehicleType string

const (
	TwoWheeler  VehicleType = "TwoWheeler"
	FourWheeler VehicleType = "FourWheeler"
)

// ParseVehicleType accepts only the two persisted spellings.
func ParseVehicleType(s string) (VehicleType, error) {
	switch VehicleType(s) {
	case TwoWheeler, FourWheeler:
		return VehicleType(s), nil
	}
	return "", fmt.Errorf("invalid vehicle type %q", s)
}

// IsValid reports whether t is a known vehicle type.
func (t VehicleType) IsValid() bool {
	return t == TwoWheeler || t == FourWheeler
}

func (t VehicleType) String() string {
	return string(t)
}
