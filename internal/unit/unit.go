package unit

import (
	"errors"
	"fmt"
	"math"

	"github.com/annel0/masonry/internal/vec"
	"github.com/google/uuid"
)

// Type определяет семантический тип элемента
type Type string

const (
	TypeBrick      Type = "brick"      // Кирпич
	TypeBlock      Type = "block"      // Блок
	TypeInsulation Type = "insulation" // Изоляционная панель
	TypeJoint      Type = "joint"      // Растворный шов
)

// IsValid проверяет, известен ли тип
func (t Type) IsValid() bool {
	switch t {
	case TypeBrick, TypeBlock, TypeInsulation, TypeJoint:
		return true
	}
	return false
}

// IsStructural сообщает, является ли тип несущим элементом (не швом)
func (t Type) IsStructural() bool {
	return t.IsValid() && t != TypeJoint
}

// Orientation определяет ориентацию шва относительно родительского элемента
type Orientation string

const (
	OrientationNone          Orientation = ""
	OrientationVerticalLeft  Orientation = "vertical-left"
	OrientationVerticalRight Orientation = "vertical-right"
	OrientationHorizontal    Orientation = "horizontal"
)

// IsValid проверяет ориентацию шва
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationVerticalLeft, OrientationVerticalRight, OrientationHorizontal:
		return true
	}
	return false
}

// IsVertical сообщает, является ли шов вертикальным (левым или правым)
func (o Orientation) IsVertical() bool {
	return o == OrientationVerticalLeft || o == OrientationVerticalRight
}

// Side определяет сторону соседа вдоль оси длины элемента
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Sign возвращает -1 для левой стороны и +1 для правой
func (s Side) Sign() float64 {
	if s == SideLeft {
		return -1
	}
	return 1
}

// Orientation возвращает ориентацию вертикального шва для стороны
func (s Side) Orientation() Orientation {
	if s == SideLeft {
		return OrientationVerticalLeft
	}
	return OrientationVerticalRight
}

// ParseSide разбирает строковое представление стороны
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	}
	return "", fmt.Errorf("неизвестная сторона %q", s)
}

// Dimensions содержит габариты элемента в сантиметрах.
// Length идет вдоль оси укладки, Width — толщина стены, Height — по вертикали.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsZero сообщает, что габариты не заданы
func (d Dimensions) IsZero() bool {
	return d == Dimensions{}
}

// Validate проверяет, что все габариты конечны и строго положительны
func (d Dimensions) Validate() error {
	for _, v := range []float64{d.Length, d.Width, d.Height} {
		if !vec.IsFinite(v) || v <= 0 {
			return fmt.Errorf("%w: габариты %+v", ErrInvalidDimensions, d)
		}
	}
	return nil
}

var (
	ErrInvalidDimensions = errors.New("габариты должны быть конечными и положительными")
	ErrInvalidPosition   = errors.New("позиция содержит нечисловые координаты")
	ErrInvalidType       = errors.New("неизвестный тип элемента")
	ErrJointWithoutOwner = errors.New("шов должен ссылаться на родительский элемент")
	ErrJointOrientation  = errors.New("шов должен иметь ориентацию")
)

// Unit представляет размещенный строительный элемент, включая швы
type Unit struct {
	ID          string        `json:"id"`
	Type        Type          `json:"type"`
	SubType     string        `json:"sub_type,omitempty"`
	Position    vec.Vec3Float `json:"position"`
	Rotation    float64       `json:"rotation"`
	Dimensions  Dimensions    `json:"dimensions"`
	ParentID    string        `json:"parent_id,omitempty"`   // Только для швов
	Orientation Orientation   `json:"orientation,omitempty"` // Только для швов

	// Course — индекс ряда (assise), известный на момент укладки.
	// Если CourseTracked == false (импортированные данные), ряд выводится из высоты.
	Course        int  `json:"course"`
	CourseTracked bool `json:"course_tracked"`
}

// NewID генерирует новый уникальный идентификатор элемента
func NewID() string {
	return uuid.NewString()
}

// IsJoint сообщает, является ли элемент швом
func (u *Unit) IsJoint() bool {
	return u.Type == TypeJoint
}

// Top возвращает отметку верхней грани элемента
func (u *Unit) Top() float64 {
	return u.Position.Y + u.Dimensions.Height/2
}

// Bottom возвращает отметку нижней грани элемента
func (u *Unit) Bottom() float64 {
	return u.Position.Y - u.Dimensions.Height/2
}

// Format возвращает разобранный подтип элемента
func (u *Unit) Format() SubType {
	return ParseSubType(u.SubType)
}

// Clone возвращает независимую копию элемента
func (u *Unit) Clone() *Unit {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Validate проверяет инварианты элемента
func (u *Unit) Validate() error {
	if err := u.validateGeometry(); err != nil {
		return err
	}
	if u.IsJoint() && u.ParentID == "" {
		return fmt.Errorf("%w (id=%s)", ErrJointWithoutOwner, u.ID)
	}
	return nil
}

// ValidateLegacy проверяет элемент из внешних данных: у швов допускается
// отсутствие ссылки на родителя, остальные инварианты обязательны.
func (u *Unit) ValidateLegacy() error {
	return u.validateGeometry()
}

func (u *Unit) validateGeometry() error {
	if !u.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, u.Type)
	}
	if !u.Position.IsFinite() || !vec.IsFinite(u.Rotation) {
		return fmt.Errorf("%w (id=%s)", ErrInvalidPosition, u.ID)
	}
	if err := u.Dimensions.Validate(); err != nil {
		return err
	}
	if u.IsJoint() && !u.Orientation.IsValid() {
		return fmt.Errorf("%w (id=%s)", ErrJointOrientation, u.ID)
	}
	return nil
}

// NormalizeAngle приводит угол к диапазону [0, 2π)
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// SameRotation сравнивает два угла по модулю 2π с допуском tol
func SameRotation(a, b, tol float64) bool {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return d <= tol || 2*math.Pi-d <= tol
}
