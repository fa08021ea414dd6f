package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/annel0/masonry/internal/registry"
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeBrick(t *testing.T, r *registry.Registry, id string, x, y, z float64) *unit.Unit {
	t.Helper()
	u := &unit.Unit{
		ID:         id,
		Type:       unit.TypeBrick,
		SubType:    "M65",
		Position:   vec.Vec3Float{X: x, Y: y, Z: z},
		Dimensions: unit.Dimensions{Length: 21, Width: 10, Height: 6.5},
	}
	require.NoError(t, r.Add(u))
	return u
}

func TestSnap_Idempotent(t *testing.T) {
	values := []float64{0, 0.24, 0.26, -0.26, 1.75, 13.37, -99.99, 1e6 + 0.3}
	for _, v := range values {
		once := Snap(v, DefaultSpacing)
		assert.Equal(t, once, Snap(once, DefaultSpacing), "snap(snap(%v)) должен совпадать с snap(%v)", v, v)
	}

	assert.Equal(t, 0.0, Snap(0.24, 0.5))
	assert.Equal(t, 0.5, Snap(0.26, 0.5))
	assert.Equal(t, 13.5, Snap(13.37, 0.5))
	assert.Equal(t, 3.3, Snap(3.3, 0), "нулевой шаг отключает привязку")
}

func TestResolvePlacement_Ground(t *testing.T) {
	resolver := NewResolver(registry.New(), 0, 0)

	p, err := resolver.ResolvePlacement(10.2, -3.9)
	require.NoError(t, err)
	assert.True(t, p.OnGround())
	assert.Equal(t, 0.0, p.Height)
	assert.Equal(t, 10.0, p.SnappedX)
	assert.Equal(t, -4.0, p.SnappedZ)
}

func TestResolvePlacement_StackingMonotonic(t *testing.T) {
	reg := registry.New()
	resolver := NewResolver(reg, DefaultSpacing, DefaultStackTolerance)

	// Несколько элементов в одной колонне; верхний задает высоту
	placeBrick(t, reg, "low", 0, 4.45, 0)
	top := placeBrick(t, reg, "top", 0.5, 20, 0)
	placeBrick(t, reg, "mid", -0.5, 12.15, 0.5)

	p, err := resolver.ResolvePlacement(0.1, 0.1)
	require.NoError(t, err)
	require.NotNil(t, p.Support)
	assert.Equal(t, "top", p.Support.ID)
	assert.InDelta(t, top.Top(), p.Height, 1e-9)

	// Элемент за пределами допуска не считается опорой
	placeBrick(t, reg, "far", 30, 100, 0)
	p, err = resolver.ResolvePlacement(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "top", p.Support.ID)
}

func TestResolvePlacement_IgnoresJoints(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Add(&unit.Unit{
		ID:          "orphan",
		Type:        unit.TypeJoint,
		Orientation: unit.OrientationHorizontal,
		Position:    vec.Vec3Float{Y: 0.6},
		Dimensions:  unit.Dimensions{Length: 21, Width: 10, Height: 1.2},
	}))

	p, err := NewResolver(reg, 0, 0).ResolvePlacement(0, 0)
	require.NoError(t, err)
	assert.True(t, p.OnGround(), "шов не может быть опорой")
}

func TestResolvePlacement_InvalidInput(t *testing.T) {
	resolver := NewResolver(registry.New(), 0, 0)

	_, err := resolver.ResolvePlacement(math.NaN(), 0)
	assert.True(t, errors.Is(err, ErrInvalidCoordinates))

	_, err = resolver.ResolvePlacement(0, math.Inf(1))
	assert.True(t, errors.Is(err, ErrInvalidCoordinates))
}
