package config

import (
	"github.com/annel0/masonry/internal/adjacency"
	"github.com/annel0/masonry/internal/course"
	"github.com/annel0/masonry/internal/grid"
	"github.com/annel0/masonry/internal/joint"
	"github.com/annel0/masonry/internal/unit"
)

// MasonryConfig содержит настройки движка укладки (сантиметры)
type MasonryConfig struct {
	GridSpacing                float64 `yaml:"grid_spacing"`
	StackTolerance             float64 `yaml:"stack_tolerance"`
	AdjacencyTolerance         float64 `yaml:"adjacency_tolerance"`
	AdjacencyVerticalTolerance float64 `yaml:"adjacency_vertical_tolerance"`
	CourseBandHeight           float64 `yaml:"course_band_height"`
	HorizontalMatchTolerance   float64 `yaml:"horizontal_match_tolerance"`
	VerticalMatchTolerance     float64 `yaml:"vertical_match_tolerance"`

	// ElementHeights — высота элемента в ряду по типу (brick, block, insulation)
	ElementHeights map[string]float64 `yaml:"element_heights"`
	Joints         JointConfig        `yaml:"joints"`
}

// JointConfig — таблицы толщин швов
type JointConfig struct {
	ByType map[string]float64 `yaml:"by_type"` // По типу элемента
	Active map[string]float64 `yaml:"active"`  // Активные значения по подтипу или формату
	User   map[string]float64 `yaml:"user"`    // Заданные пользователем по точному подтипу
}

func (m *MasonryConfig) applyDefaults() {
	if m.GridSpacing <= 0 {
		m.GridSpacing = grid.DefaultSpacing
	}
	if m.StackTolerance <= 0 {
		m.StackTolerance = grid.DefaultStackTolerance
	}
	if m.AdjacencyTolerance <= 0 {
		m.AdjacencyTolerance = adjacency.DefaultPlanarTolerance
	}
	if m.AdjacencyVerticalTolerance <= 0 {
		m.AdjacencyVerticalTolerance = adjacency.DefaultVerticalTolerance
	}
	if m.CourseBandHeight <= 0 {
		m.CourseBandHeight = course.DefaultBandHeight
	}
	if m.HorizontalMatchTolerance <= 0 {
		m.HorizontalMatchTolerance = joint.DefaultHorizontalMatchTolerance
	}
	if m.VerticalMatchTolerance <= 0 {
		m.VerticalMatchTolerance = joint.DefaultVerticalMatchTolerance
	}

	defaults := course.DefaultTable()
	if m.ElementHeights == nil {
		m.ElementHeights = make(map[string]float64)
	}
	for t, h := range defaults.ElementHeights {
		if _, ok := m.ElementHeights[string(t)]; !ok {
			m.ElementHeights[string(t)] = h
		}
	}
	if m.Joints.ByType == nil {
		m.Joints.ByType = make(map[string]float64)
	}
	for t, v := range defaults.JointThickness {
		if _, ok := m.Joints.ByType[string(t)]; !ok {
			m.Joints.ByType[string(t)] = v
		}
	}
}

// CourseTable строит таблицу высот рядов из конфигурации
func (m *MasonryConfig) CourseTable() *course.StaticTable {
	table := course.DefaultTable()
	for t, h := range m.ElementHeights {
		table.ElementHeights[unit.Type(t)] = h
	}
	for t, v := range m.Joints.ByType {
		table.JointThickness[unit.Type(t)] = v
	}
	return table
}
