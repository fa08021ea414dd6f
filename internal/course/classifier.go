package course

import (
	"math"

	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

// DefaultBandHeight — высота полосы эвристики рядов, см.
// Типичный кирпич M65 (6.5) плюс шов (1.2).
const DefaultBandHeight = 7.7

// Table — внешняя таблица высот рядов по типам элементов
type Table interface {
	// HeightOfCourse возвращает полную высоту ряда (элемент + горизонтальный шов)
	HeightOfCourse(t unit.Type, index int) float64
	// ElementHeightInCourse возвращает высоту элемента в ряду
	ElementHeightInCourse(t unit.Type, index int) float64
}

// Classifier определяет индекс ряда (assise) элемента и отметки рядов
type Classifier struct {
	bandHeight float64
	table      Table
}

// NewClassifier создает классификатор. bandHeight <= 0 заменяется значением по умолчанию.
func NewClassifier(table Table, bandHeight float64) *Classifier {
	if bandHeight <= 0 {
		bandHeight = DefaultBandHeight
	}
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{bandHeight: bandHeight, table: table}
}

// BandHeight возвращает высоту полосы эвристики
func (c *Classifier) BandHeight() float64 {
	return c.bandHeight
}

// CourseIndexForY выводит индекс ряда из отметки центра элемента, когда
// высота элемента неизвестна. Поправка центр → низ для элемента высотой
// в полосу (низ = y - band/2) с округлением до ближайшей границы полосы
// сводится ровно к floor(y / band), поэтому отдельный сдвиг не вычисляется.
// Это эвристика: при расхождении полосы с реальной высотой ряда типа
// элемент может быть отнесен к соседнему ряду.
func (c *Classifier) CourseIndexForY(y float64) int {
	if !vec.IsFinite(y) || y <= 0 {
		return 0
	}
	return int(math.Floor(y / c.bandHeight))
}

// CourseIndexForBed выводит индекс ряда из отметки низа элемента:
// ближайшая граница полосы. Низ элемента ряда k лежит на k*band плюс
// толщина шва, поэтому округление устойчиво к формату и толщине шва.
func (c *Classifier) CourseIndexForBed(bed float64) int {
	if !vec.IsFinite(bed) || bed <= 0 {
		return 0
	}
	return int(math.Floor(bed/c.bandHeight + 0.5))
}

// CourseOf возвращает ряд элемента: явно записанный при укладке,
// иначе выведенный из отметки его низа (центр минус половина высоты).
// Без высоты остается эвристика по центру.
func (c *Classifier) CourseOf(u *unit.Unit) int {
	if u.CourseTracked {
		return u.Course
	}
	if u.Dimensions.Height > 0 {
		return c.CourseIndexForBed(u.Bottom())
	}
	return c.CourseIndexForY(u.Position.Y)
}

// HeightOfCourse возвращает высоту ряда из внешней таблицы
func (c *Classifier) HeightOfCourse(t unit.Type, index int) float64 {
	return c.table.HeightOfCourse(t, index)
}

// ElementHeightInCourse возвращает высоту элемента в ряду из внешней таблицы
func (c *Classifier) ElementHeightInCourse(t unit.Type, index int) float64 {
	return c.table.ElementHeightInCourse(t, index)
}

// TopOfCourse возвращает отметку верха ряда index
func (c *Classifier) TopOfCourse(t unit.Type, index int) float64 {
	if index < 0 {
		return 0
	}
	top := 0.0
	for i := 0; i <= index; i++ {
		top += c.table.HeightOfCourse(t, i)
	}
	return top
}

// BaseOfCourse возвращает отметку низа ряда index (верх предыдущего ряда)
func (c *Classifier) BaseOfCourse(t unit.Type, index int) float64 {
	if index <= 0 {
		return 0
	}
	return c.TopOfCourse(t, index-1)
}
