package course

import (
	"math"
	"testing"

	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestCourseIndexForY_BandBoundaries(t *testing.T) {
	c := NewClassifier(DefaultTable(), 0)

	cases := []struct {
		y    float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{4.45, 0},  // центр кирпича первого ряда
		{7.69, 0},  // чуть ниже границы
		{7.7, 1},   // ровно на границе — следующий ряд
		{12.15, 1}, // центр кирпича второго ряда
		{15.39, 1},
		{15.4, 2},
		{math.NaN(), 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, c.CourseIndexForY(tc.y), "y=%v", tc.y)
	}
}

func TestCourseIndexForY_BlockMisclassification(t *testing.T) {
	// Эвристика полос по центру настроена на кирпич: центр блока первого ряда
	// (1.0 + 19/2 = 10.5) попадает во вторую полосу.
	c := NewClassifier(DefaultTable(), 0)
	assert.Equal(t, 1, c.CourseIndexForY(10.5))

	// Явно записанный ряд имеет приоритет над эвристикой
	block := &unit.Unit{Position: vec.Vec3Float{Y: 10.5}, Course: 0, CourseTracked: true}
	assert.Equal(t, 0, c.CourseOf(block))

	// Без высоты остается эвристика по центру
	block.CourseTracked = false
	assert.Equal(t, 1, c.CourseOf(block))

	// С высотой центр приводится к низу элемента: низ блока на 1.0 — ряд 0
	block.Dimensions = unit.Dimensions{Length: 39, Width: 19, Height: 19}
	assert.Equal(t, 0, c.CourseOf(block))
}

func TestCourseIndexForBed_BandBoundaries(t *testing.T) {
	c := NewClassifier(DefaultTable(), 0)

	cases := []struct {
		bed  float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{1.2, 0},  // постель кирпича первого ряда
		{3.8, 0},  // ниже середины полосы
		{3.9, 1},  // выше середины полосы
		{7.4, 1},  // M50 второго ряда: 5 + 1.2 + 1.2
		{8.9, 1},  // M65 второго ряда
		{11.4, 1}, // M90 второго ряда
		{16.6, 2}, // M65 третьего ряда
		{math.Inf(1), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.CourseIndexForBed(tc.bed), "bed=%v", tc.bed)
	}

	// Центр кирпича M90 второго ряда (15.9) эвристика по центру относит к ряду 2
	m90 := &unit.Unit{Position: vec.Vec3Float{Y: 15.9}, Dimensions: unit.Dimensions{Length: 21, Width: 10, Height: 9}}
	assert.Equal(t, 2, c.CourseIndexForY(m90.Position.Y))
	assert.Equal(t, 1, c.CourseOf(m90))
}

func TestClassifier_CourseElevations(t *testing.T) {
	c := NewClassifier(DefaultTable(), 0)

	assert.InDelta(t, 7.7, c.HeightOfCourse(unit.TypeBrick, 0), 1e-9)
	assert.InDelta(t, 6.5, c.ElementHeightInCourse(unit.TypeBrick, 3), 1e-9)
	assert.InDelta(t, 20.0, c.HeightOfCourse(unit.TypeBlock, 0), 1e-9)

	assert.Equal(t, 0.0, c.BaseOfCourse(unit.TypeBrick, 0))
	assert.InDelta(t, 7.7, c.BaseOfCourse(unit.TypeBrick, 1), 1e-9)
	assert.InDelta(t, 23.1, c.TopOfCourse(unit.TypeBrick, 2), 1e-9)
	assert.Equal(t, 0.0, c.TopOfCourse(unit.TypeBrick, -1))
}

func TestStaticTable_Fallbacks(t *testing.T) {
	table := &StaticTable{FallbackHeight: 10, FallbackJoint: 1}
	assert.Equal(t, 10.0, table.ElementHeightInCourse(unit.TypeBrick, 0))
	assert.Equal(t, 11.0, table.HeightOfCourse(unit.TypeBrick, 0))
}
