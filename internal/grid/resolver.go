package grid

import (
	"errors"
	"math"

	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

const (
	// DefaultSpacing — шаг сетки привязки, см
	DefaultSpacing = 0.5
	// DefaultStackTolerance — радиус поиска опоры в колонне, см.
	// Поглощает шум привязки и толщину швов.
	DefaultStackTolerance = 5.0
)

var ErrInvalidCoordinates = errors.New("координаты точки должны быть конечными")

// UnitSource предоставляет несущие элементы для сканирования колонны
type UnitSource interface {
	Structural() []*unit.Unit
}

// Placement — результат разрешения точки укладки
type Placement struct {
	SnappedX float64
	SnappedZ float64
	// Height — отметка верха опоры; 0 при укладке на землю
	Height float64
	// Support — самый высокий элемент в колонне или nil
	Support *unit.Unit
}

// OnGround сообщает, что опоры нет и элемент кладется в ряд, выбранный классификатором
func (p Placement) OnGround() bool {
	return p.Support == nil
}

// Snap округляет значение до ближайшего кратного шага сетки
func Snap(value, spacing float64) float64 {
	if spacing <= 0 {
		return value
	}
	return math.Round(value/spacing) * spacing
}

// Resolver переводит точку выбора в привязанные координаты и высоту укладки
type Resolver struct {
	source    UnitSource
	spacing   float64
	tolerance float64
}

// NewResolver создает резолвер. Непозитивные параметры заменяются значениями по умолчанию.
func NewResolver(source UnitSource, spacing, stackTolerance float64) *Resolver {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	if stackTolerance <= 0 {
		stackTolerance = DefaultStackTolerance
	}
	return &Resolver{
		source:    source,
		spacing:   spacing,
		tolerance: stackTolerance,
	}
}

// Spacing возвращает шаг сетки
func (r *Resolver) Spacing() float64 {
	return r.spacing
}

// Snap привязывает значение к сетке резолвера
func (r *Resolver) Snap(value float64) float64 {
	return Snap(value, r.spacing)
}

// ResolvePlacement привязывает (rawX, rawZ) к сетке и находит самый высокий
// элемент, занимающий эту колонну. Отсутствие опоры — нормальный результат.
func (r *Resolver) ResolvePlacement(rawX, rawZ float64) (Placement, error) {
	if !vec.IsFinite(rawX) || !vec.IsFinite(rawZ) {
		return Placement{}, ErrInvalidCoordinates
	}

	p := Placement{
		SnappedX: r.Snap(rawX),
		SnappedZ: r.Snap(rawZ),
	}
	point := vec.Vec2Float{X: p.SnappedX, Y: p.SnappedZ}

	for _, u := range r.source.Structural() {
		if u.Position.XZ().DistanceTo(point) >= r.tolerance {
			continue
		}
		if top := u.Top(); p.Support == nil || top > p.Height {
			p.Height = top
			p.Support = u
		}
	}

	return p, nil
}
