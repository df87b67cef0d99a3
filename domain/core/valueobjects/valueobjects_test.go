package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSlotLayout(t *testing.T) {
	layout := MustSlotLayout(DefaultSlotLayout)

	assert.Equal(t, 30, layout.Len())
	assert.Equal(t, 10, layout.Count(TwoWheeler))
	assert.Equal(t, 20, layout.Count(FourWheeler))
	assert.Equal(t, TwoWheeler, layout.TypeOf(1))
	assert.Equal(t, TwoWheeler, layout.TypeOf(10))
	assert.Equal(t, FourWheeler, layout.TypeOf(11))
	assert.Equal(t, FourWheeler, layout.TypeOf(30))
}

func TestNewSlotLayout_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"empty", ""},
		{"bad character", "0012"},
		{"too long", strings.Repeat("0", MaxSlotsPerFloor+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlotLayout(tt.pattern)
			assert.Error(t, err)
		})
	}
}

func TestParseVehicleType(t *testing.T) {
	vt, err := ParseVehicleType("FourWheeler")
	require.NoError(t, err)
	assert.Equal(t, FourWheeler, vt)
	assert.True(t, vt.IsValid())

	_, err = ParseVehicleType("fourwheeler")
	assert.Error(t, err)
	assert.False(t, VehicleType("Truck").IsValid())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("root")
	assert.Error(t, err)
}
