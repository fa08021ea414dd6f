package adjacency

import (
	"math"

	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

const (
	// DefaultPlanarTolerance — допуск поиска соседа в плоскости x/z, см.
	// Шире допуска стыковки колонны: поглощает погрешность поворота и толщину швов.
	DefaultPlanarTolerance = 8.0
	// DefaultVerticalTolerance — допуск по высоте (тот же ряд), см
	DefaultVerticalTolerance = 2.0
)

// UnitSource предоставляет несущие элементы для поиска соседей
type UnitSource interface {
	Structural() []*unit.Unit
}

// Locator ищет соседние элементы с учетом собственного поворота элемента
type Locator struct {
	source   UnitSource
	planar   float64
	vertical float64
}

// NewLocator создает локатор. Непозитивные допуски заменяются значениями по умолчанию.
func NewLocator(source UnitSource, planarTolerance, verticalTolerance float64) *Locator {
	if planarTolerance <= 0 {
		planarTolerance = DefaultPlanarTolerance
	}
	if verticalTolerance <= 0 {
		verticalTolerance = DefaultVerticalTolerance
	}
	return &Locator{
		source:   source,
		planar:   planarTolerance,
		vertical: verticalTolerance,
	}
}

// ExpectedPosition вычисляет ожидаемый центр соседа: смещение на длину
// элемента вдоль его собственной оси (cos r, sin r). Высота не меняется.
func ExpectedPosition(ref *unit.Unit, side unit.Side) vec.Vec3Float {
	dir := vec.DirectionXZ(ref.Rotation)
	offset := dir.Mul(side.Sign() * ref.Dimensions.Length)
	return vec.FromXZ(ref.Position.XZ().Add(offset), ref.Position.Y)
}

// FindNeighbor возвращает соседа со стороны side или nil (край стены)
func (l *Locator) FindNeighbor(ref *unit.Unit, side unit.Side) *unit.Unit {
	return l.find(ExpectedPosition(ref, side), ref.ID)
}

// Neighbors возвращает соседей слева и справа
func (l *Locator) Neighbors(ref *unit.Unit) (left, right *unit.Unit) {
	return l.FindNeighbor(ref, unit.SideLeft), l.FindNeighbor(ref, unit.SideRight)
}

// FindNear ищет несущий элемент рядом с произвольной ожидаемой точкой
func (l *Locator) FindNear(expected vec.Vec3Float) *unit.Unit {
	return l.find(expected, "")
}

func (l *Locator) find(expected vec.Vec3Float, excludeID string) *unit.Unit {
	point := expected.XZ()
	for _, u := range l.source.Structural() {
		if u.ID == excludeID {
			continue
		}
		if math.Abs(u.Position.Y-expected.Y) > l.vertical {
			continue
		}
		if u.Position.XZ().DistanceTo(point) <= l.planar {
			return u
		}
	}
	return nil
}
