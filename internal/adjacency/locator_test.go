package adjacency

import (
	"math"
	"testing"

	"github.com/annel0/masonry/internal/registry"
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brickAt(id string, x, z, rotation float64) *unit.Unit {
	return &unit.Unit{
		ID:         id,
		Type:       unit.TypeBrick,
		SubType:    "M65",
		Position:   vec.Vec3Float{X: x, Y: 4.45, Z: z},
		Rotation:   rotation,
		Dimensions: unit.Dimensions{Length: 21, Width: 10, Height: 6.5},
	}
}

func TestFindNeighbor_Unrotated(t *testing.T) {
	reg := registry.New()
	a := brickAt("a", 0, 0, 0)
	b := brickAt("b", 21, 0, 0)
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	loc := NewLocator(reg, 0, 0)

	right := loc.FindNeighbor(a, unit.SideRight)
	require.NotNil(t, right)
	assert.Equal(t, "b", right.ID)

	left := loc.FindNeighbor(b, unit.SideLeft)
	require.NotNil(t, left)
	assert.Equal(t, "a", left.ID)

	assert.Nil(t, loc.FindNeighbor(a, unit.SideLeft), "край стены — не ошибка, а nil")
}

func TestFindNeighbor_RotatedQuarterTurn(t *testing.T) {
	reg := registry.New()
	// Поворот на π/2: ось длины совпадает с осью Z
	a := brickAt("a", 0, 0, math.Pi/2)
	b := brickAt("b", 0, 21, math.Pi/2)
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	loc := NewLocator(reg, 0, 0)

	right := loc.FindNeighbor(a, unit.SideRight)
	require.NotNil(t, right, "сосед по оси Z должен находиться с учетом поворота")
	assert.Equal(t, "b", right.ID)

	// Регрессия: проверка без учета поворота (смещение по X) соседа не находит
	naive := vec.Vec3Float{X: a.Position.X + a.Dimensions.Length, Y: a.Position.Y, Z: a.Position.Z}
	assert.Nil(t, loc.FindNear(naive), "смещение по оси X не должно находить повернутого соседа")
}

func TestFindNeighbor_AllQuarterTurns(t *testing.T) {
	for k := 0; k < 4; k++ {
		rot := float64(k) * math.Pi / 2
		reg := registry.New()
		a := brickAt("a", 100, 50, rot)
		require.NoError(t, reg.Add(a))

		for _, side := range []unit.Side{unit.SideLeft, unit.SideRight} {
			exp := ExpectedPosition(a, side)
			n := brickAt("n-"+string(side), exp.X, exp.Z, rot)
			require.NoError(t, reg.Add(n))
		}

		loc := NewLocator(reg, 0, 0)
		left, right := loc.Neighbors(a)
		require.NotNil(t, left, "поворот %d×90°", k)
		require.NotNil(t, right, "поворот %d×90°", k)
		assert.Equal(t, "n-left", left.ID)
		assert.Equal(t, "n-right", right.ID)

		if k%2 == 1 {
			naive := vec.Vec3Float{X: a.Position.X + a.Dimensions.Length, Y: a.Position.Y, Z: a.Position.Z}
			assert.Nil(t, loc.FindNear(naive), "поворот %d×90°: осевая проверка должна промахиваться", k)
		}
	}
}

func TestFindNeighbor_Tolerances(t *testing.T) {
	reg := registry.New()
	a := brickAt("a", 0, 0, 0)
	require.NoError(t, reg.Add(a))

	// Сосед со сдвигом на толщину шва все еще находится
	b := brickAt("b", 22.2, 0.5, 0)
	require.NoError(t, reg.Add(b))

	// Элемент другого ряда не считается соседом
	upper := brickAt("upper", -21, 0, 0)
	upper.Position.Y = 12.15
	require.NoError(t, reg.Add(upper))

	loc := NewLocator(reg, 0, 0)
	assert.Equal(t, "b", loc.FindNeighbor(a, unit.SideRight).ID)
	assert.Nil(t, loc.FindNeighbor(a, unit.SideLeft))
}

func TestFindNeighbor_IgnoresJoints(t *testing.T) {
	reg := registry.New()
	a := brickAt("a", 0, 0, 0)
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(&unit.Unit{
		ID:          "j",
		Type:        unit.TypeJoint,
		ParentID:    "x",
		Orientation: unit.OrientationVerticalRight,
		Position:    vec.Vec3Float{X: 21, Y: 4.45},
		Dimensions:  unit.Dimensions{Length: 1.2, Width: 10, Height: 6.5},
	}))

	assert.Nil(t, NewLocator(reg, 0, 0).FindNeighbor(a, unit.SideRight))
}
