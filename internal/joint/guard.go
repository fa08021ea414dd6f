package joint

import (
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

const (
	// DefaultHorizontalMatchTolerance — допуск позиционного совпадения горизонтального шва, см
	DefaultHorizontalMatchTolerance = 0.5
	// DefaultVerticalMatchTolerance — допуск для вертикальных швов (погрешность поворота), см
	DefaultVerticalMatchTolerance = 3.0
)

// Matcher — стратегия поиска уже существующего шва для элемента
type Matcher interface {
	Name() string
	FindJoint(ref *unit.Unit, orientation unit.Orientation, joints []*unit.Unit) *unit.Unit
}

// ParentLinkMatcher — основная стратегия: шов ссылается на элемент по id
type ParentLinkMatcher struct{}

func (ParentLinkMatcher) Name() string { return "parent-link" }

func (ParentLinkMatcher) FindJoint(ref *unit.Unit, orientation unit.Orientation, joints []*unit.Unit) *unit.Unit {
	for _, j := range joints {
		if j.ParentID == ref.ID && j.Orientation == orientation {
			return j
		}
	}
	return nil
}

// PositionalMatcher — запасная стратегия для швов без действующей ссылки на
// родителя (импортированные данные): совпадение по ожидаемой позиции.
type PositionalMatcher struct {
	Expected            func(ref *unit.Unit, orientation unit.Orientation) vec.Vec3Float
	ParentExists        func(id string) bool
	HorizontalTolerance float64
	VerticalTolerance   float64
}

func (m PositionalMatcher) Name() string { return "positional" }

func (m PositionalMatcher) FindJoint(ref *unit.Unit, orientation unit.Orientation, joints []*unit.Unit) *unit.Unit {
	expected := m.Expected(ref, orientation)

	tol := m.VerticalTolerance
	if orientation == unit.OrientationHorizontal {
		tol = m.HorizontalTolerance
	}

	for _, j := range joints {
		if j.Orientation != orientation || m.linked(j) {
			continue
		}
		if j.Position.DistanceTo(expected) <= tol {
			return j
		}
	}
	return nil
}

func (m PositionalMatcher) linked(j *unit.Unit) bool {
	if j.ParentID == "" {
		return false
	}
	if m.ParentExists == nil {
		return true
	}
	return m.ParentExists(j.ParentID)
}

// SharedFaceMatcher находит вертикальный шов другого элемента на той же
// грани: левый шов соседа и правый шов элемента — один физический шов.
type SharedFaceMatcher struct {
	Expected  func(ref *unit.Unit, orientation unit.Orientation) vec.Vec3Float
	Tolerance float64
}

func (SharedFaceMatcher) Name() string { return "shared-face" }

func (m SharedFaceMatcher) FindJoint(ref *unit.Unit, orientation unit.Orientation, joints []*unit.Unit) *unit.Unit {
	if !orientation.IsVertical() {
		return nil
	}
	expected := m.Expected(ref, orientation)
	for _, j := range joints {
		if !j.Orientation.IsVertical() || j.ParentID == ref.ID {
			continue
		}
		if j.Position.DistanceTo(expected) <= m.Tolerance {
			return j
		}
	}
	return nil
}

// JointLister предоставляет текущие швы реестра
type JointLister interface {
	Joints() []*unit.Unit
}

// Guard не допускает более одного шва данной ориентации на родительский элемент
// и более одного вертикального шва на общую грань.
// Стратегии применяются по порядку, первая найденная — ответ.
type Guard struct {
	joints   JointLister
	matchers []Matcher
}

// NewGuard создает защиту от дублей с цепочкой стратегий
func NewGuard(joints JointLister, matchers ...Matcher) *Guard {
	return &Guard{joints: joints, matchers: matchers}
}

// FindJoint возвращает существующий шов и имя сработавшей стратегии
func (g *Guard) FindJoint(ref *unit.Unit, orientation unit.Orientation) (*unit.Unit, string) {
	joints := g.joints.Joints()
	for _, m := range g.matchers {
		if j := m.FindJoint(ref, orientation, joints); j != nil {
			return j, m.Name()
		}
	}
	return nil, ""
}

// HasJoint сообщает, есть ли у элемента шов данной ориентации
func (g *Guard) HasJoint(ref *unit.Unit, orientation unit.Orientation) bool {
	j, _ := g.FindJoint(ref, orientation)
	return j != nil
}
