package unit

import (
	"errors"
	"math"
	"testing"

	"github.com/annel0/masonry/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubType(t *testing.T) {
	cases := []struct {
		code string
		want SubType
	}{
		{"M65", SubType{Format: "M65"}},
		{"M65_HALF", SubType{Format: "M65", Cut: CutHalf}},
		{"M65_half", SubType{Format: "M65", Cut: CutHalf}},
		{"B14_3Q", SubType{Format: "B14", Cut: CutThreeQuarter}},
		{"DF_1Q", SubType{Format: "DF", Cut: CutQuarter}},
		{"CUSTOM_X", SubType{Format: "CUSTOM_X"}},
		{"", SubType{}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseSubType(tc.code), "код %q", tc.code)
	}
	assert.Equal(t, "M65_HALF", ParseSubType("M65_half").String())
}

func TestLookupDimensions(t *testing.T) {
	d, err := LookupDimensions(TypeBrick, "M65")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Length: 21, Width: 10, Height: 6.5}, d)

	// Резка меняет только длину
	d, err = LookupDimensions(TypeBrick, "M65_3Q")
	require.NoError(t, err)
	assert.InDelta(t, 15.75, d.Length, 1e-9)
	assert.Equal(t, 6.5, d.Height)

	_, err = LookupDimensions(TypeBlock, "M65")
	assert.Error(t, err, "формат кирпича не должен подходить для блока")

	_, err = LookupDimensions(TypeBrick, "UNKNOWN")
	assert.Error(t, err)
}

func TestUnit_Validate(t *testing.T) {
	valid := Unit{
		ID:         "a",
		Type:       TypeBrick,
		Dimensions: Dimensions{Length: 21, Width: 10, Height: 6.5},
	}
	require.NoError(t, valid.Validate())

	zero := valid
	zero.Dimensions.Height = 0
	assert.True(t, errors.Is(zero.Validate(), ErrInvalidDimensions))

	nan := valid
	nan.Position = vec.Vec3Float{X: math.NaN()}
	assert.True(t, errors.Is(nan.Validate(), ErrInvalidPosition))

	joint := Unit{
		ID:          "j",
		Type:        TypeJoint,
		Orientation: OrientationHorizontal,
		Dimensions:  Dimensions{Length: 21, Width: 10, Height: 1.2},
	}
	assert.True(t, errors.Is(joint.Validate(), ErrJointWithoutOwner))
	assert.NoError(t, joint.ValidateLegacy(), "импортированный шов может не иметь родителя")

	joint.ParentID = "a"
	joint.Orientation = OrientationNone
	assert.True(t, errors.Is(joint.Validate(), ErrJointOrientation))
}

func TestUnit_TopBottom(t *testing.T) {
	u := Unit{Position: vec.Vec3Float{Y: 4.45}, Dimensions: Dimensions{Length: 21, Width: 10, Height: 6.5}}
	assert.InDelta(t, 7.7, u.Top(), 1e-9)
	assert.InDelta(t, 1.2, u.Bottom(), 1e-9)
}

func TestSameRotation(t *testing.T) {
	assert.True(t, SameRotation(0, 2*math.Pi, 1e-9))
	assert.True(t, SameRotation(-math.Pi/2, 3*math.Pi/2, 1e-9))
	assert.True(t, SameRotation(0.001, 2*math.Pi-0.001, 0.01))
	assert.False(t, SameRotation(0, math.Pi/2, 1e-3))
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), 1e-9)
}

func TestSide(t *testing.T) {
	assert.Equal(t, -1.0, SideLeft.Sign())
	assert.Equal(t, 1.0, SideRight.Sign())
	assert.Equal(t, OrientationVerticalLeft, SideLeft.Orientation())

	s, err := ParseSide("right")
	require.NoError(t, err)
	assert.Equal(t, SideRight, s)

	_, err = ParseSide("up")
	assert.Error(t, err)
}
