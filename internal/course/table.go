package course

import "github.com/annel0/masonry/internal/unit"

// StaticTable — таблица рядов с постоянной высотой для каждого типа
type StaticTable struct {
	ElementHeights map[unit.Type]float64
	JointThickness map[unit.Type]float64
	FallbackHeight float64
	FallbackJoint  float64
}

// DefaultTable возвращает таблицу для стандартных форматов каталога
func DefaultTable() *StaticTable {
	return &StaticTable{
		ElementHeights: map[unit.Type]float64{
			unit.TypeBrick:      6.5,
			unit.TypeBlock:      19,
			unit.TypeInsulation: 60,
		},
		JointThickness: map[unit.Type]float64{
			unit.TypeBrick:      1.2,
			unit.TypeBlock:      1.0,
			unit.TypeInsulation: 0.5,
		},
		FallbackHeight: 6.5,
		FallbackJoint:  1.0,
	}
}

// ElementHeightInCourse возвращает высоту элемента; индекс ряда не влияет
func (t *StaticTable) ElementHeightInCourse(typ unit.Type, _ int) float64 {
	if h, ok := t.ElementHeights[typ]; ok && h > 0 {
		return h
	}
	return t.FallbackHeight
}

// HeightOfCourse возвращает высоту элемента плюс толщину шва
func (t *StaticTable) HeightOfCourse(typ unit.Type, index int) float64 {
	joint, ok := t.JointThickness[typ]
	if !ok || joint <= 0 {
		joint = t.FallbackJoint
	}
	return t.ElementHeightInCourse(typ, index) + joint
}
