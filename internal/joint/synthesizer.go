package joint

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/masonry/internal/course"
	"github.com/annel0/masonry/internal/logging"
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

var ErrNotStructural = errors.New("шов можно создать только для несущего элемента")

// Store — реестр элементов, в который синтезатор добавляет швы
type Store interface {
	Add(u *unit.Unit) error
	Update(u *unit.Unit) error
	Get(id string) (*unit.Unit, bool)
	Joints() []*unit.Unit
	Structural() []*unit.Unit
}

// Listener получает уведомления о созданных швах
type Listener interface {
	JointCreated(ctx context.Context, j *unit.Unit)
}

// Options настраивает синтезатор
type Options struct {
	Thickness           ThicknessSource
	Listener            Listener
	HorizontalTolerance float64
	VerticalTolerance   float64
}

// Synthesizer создает геометрию растворных швов. Соседство он не проверяет:
// вертикальный шов создается только после подтверждения соседа локатором.
type Synthesizer struct {
	store      Store
	classifier *course.Classifier
	thickness  ThicknessSource
	listener   Listener
	guard      *Guard
}

// NewSynthesizer создает синтезатор и его защиту от дублей
// (по ссылке на родителя, по позиции, по общей грани).
func NewSynthesizer(store Store, classifier *course.Classifier, opts Options) *Synthesizer {
	if opts.HorizontalTolerance <= 0 {
		opts.HorizontalTolerance = DefaultHorizontalMatchTolerance
	}
	if opts.VerticalTolerance <= 0 {
		opts.VerticalTolerance = DefaultVerticalMatchTolerance
	}

	s := &Synthesizer{
		store:      store,
		classifier: classifier,
		thickness:  opts.Thickness,
		listener:   opts.Listener,
	}
	s.guard = NewGuard(store,
		ParentLinkMatcher{},
		PositionalMatcher{
			Expected: s.ExpectedPosition,
			ParentExists: func(id string) bool {
				_, ok := store.Get(id)
				return ok
			},
			HorizontalTolerance: opts.HorizontalTolerance,
			VerticalTolerance:   opts.VerticalTolerance,
		},
		SharedFaceMatcher{
			Expected:  s.ExpectedPosition,
			Tolerance: opts.VerticalTolerance,
		},
	)
	return s
}

// Guard возвращает защиту от дублей синтезатора
func (s *Synthesizer) Guard() *Guard {
	return s.guard
}

// Thickness возвращает толщину шва для элемента
func (s *Synthesizer) Thickness(ref *unit.Unit) float64 {
	return ResolveThickness(s.thickness, ref.SubType, ref.Type)
}

// HorizontalJointCenterY возвращает отметку центра горизонтального шва.
// Шов лежит между верхом предыдущего ряда и низом элемента. Элемент,
// уложенный движком, стоит на своей постели (верх опоры плюс толщина шва),
// поэтому центр = низ элемента - t/2 для любого формата и толщины.
// Для импортированных элементов без записанного ряда отметка берется из
// таблицы рядов: 0 для ряда 0, BaseOfCourse(k) + t/2 для k>0.
func (s *Synthesizer) HorizontalJointCenterY(ref *unit.Unit, thickness float64) float64 {
	if ref.CourseTracked {
		return ref.Bottom() - thickness/2
	}
	k := s.classifier.CourseOf(ref)
	return s.classifier.BaseOfCourse(ref.Type, k) + thickness/2
}

// ExpectedPosition возвращает позицию, которую получил бы шов данной ориентации
func (s *Synthesizer) ExpectedPosition(ref *unit.Unit, orientation unit.Orientation) vec.Vec3Float {
	if orientation == unit.OrientationHorizontal {
		return vec.Vec3Float{
			X: ref.Position.X,
			Y: s.HorizontalJointCenterY(ref, s.Thickness(ref)),
			Z: ref.Position.Z,
		}
	}

	side := unit.SideRight
	if orientation == unit.OrientationVerticalLeft {
		side = unit.SideLeft
	}
	face := ref.Position.XZ().Add(vec.DirectionXZ(ref.Rotation).Mul(side.Sign() * ref.Dimensions.Length / 2))
	return vec.FromXZ(face, ref.Position.Y)
}

// CreateVerticalJoint создает левый или правый шов в середине общей грани
// с соседом. Вызывающий код обязан заранее подтвердить соседа.
func (s *Synthesizer) CreateVerticalJoint(ctx context.Context, ref *unit.Unit, side unit.Side) (*unit.Unit, error) {
	if !ref.Type.IsStructural() {
		return nil, ErrNotStructural
	}
	orientation := side.Orientation()
	j := s.newJoint(ref, orientation)
	j.Position = s.ExpectedPosition(ref, orientation)
	j.Dimensions = unit.Dimensions{
		Length: s.Thickness(ref),
		Width:  ref.Dimensions.Width,
		Height: ref.Dimensions.Height,
	}
	return s.add(ctx, j)
}

// CreateHorizontalJoint создает шов под элементом. Отпечаток в плане и поворот
// повторяют элемент, высота равна толщине шва.
func (s *Synthesizer) CreateHorizontalJoint(ctx context.Context, ref *unit.Unit) (*unit.Unit, error) {
	if !ref.Type.IsStructural() {
		return nil, ErrNotStructural
	}
	thickness := s.Thickness(ref)
	j := s.newJoint(ref, unit.OrientationHorizontal)
	j.Position = vec.Vec3Float{
		X: ref.Position.X,
		Y: s.HorizontalJointCenterY(ref, thickness),
		Z: ref.Position.Z,
	}
	j.Dimensions = unit.Dimensions{
		Length: ref.Dimensions.Length,
		Width:  ref.Dimensions.Width,
		Height: thickness,
	}
	return s.add(ctx, j)
}

// EnsureVerticalJoint создает вертикальный шов, если его еще нет.
// Повторный запрос — не ошибка: возвращается created == false.
func (s *Synthesizer) EnsureVerticalJoint(ctx context.Context, ref *unit.Unit, side unit.Side) (*unit.Unit, bool, error) {
	if s.duplicate(ref, side.Orientation()) {
		return nil, false, nil
	}
	j, err := s.CreateVerticalJoint(ctx, ref, side)
	return j, err == nil, err
}

// EnsureHorizontalJoint создает горизонтальный шов, если его еще нет
func (s *Synthesizer) EnsureHorizontalJoint(ctx context.Context, ref *unit.Unit) (*unit.Unit, bool, error) {
	if s.duplicate(ref, unit.OrientationHorizontal) {
		return nil, false, nil
	}
	j, err := s.CreateHorizontalJoint(ctx, ref)
	return j, err == nil, err
}

func (s *Synthesizer) duplicate(ref *unit.Unit, orientation unit.Orientation) bool {
	existing, strategy := s.guard.FindJoint(ref, orientation)
	if existing == nil {
		return false
	}
	logging.Debug("Шов %s для %s уже существует (%s, стратегия %s), пропуск",
		orientation, ref.ID, existing.ID, strategy)
	return true
}

func (s *Synthesizer) newJoint(ref *unit.Unit, orientation unit.Orientation) *unit.Unit {
	return &unit.Unit{
		ID:            unit.NewID(),
		Type:          unit.TypeJoint,
		SubType:       ref.SubType,
		Rotation:      ref.Rotation,
		ParentID:      ref.ID,
		Orientation:   orientation,
		Course:        s.classifier.CourseOf(ref),
		CourseTracked: true,
	}
}

func (s *Synthesizer) add(ctx context.Context, j *unit.Unit) (*unit.Unit, error) {
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("некорректный шов для %s: %w", j.ParentID, err)
	}
	if err := s.store.Add(j); err != nil {
		return nil, fmt.Errorf("не удалось добавить шов для %s: %w", j.ParentID, err)
	}
	if s.listener != nil {
		s.listener.JointCreated(ctx, j)
	}
	return j.Clone(), nil
}
