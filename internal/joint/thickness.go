package joint

import (
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

// DefaultThickness — толщина шва, если конфигурация недоступна, см
const DefaultThickness = 1.0

// ThicknessSource — внешняя конфигурация толщин швов (только чтение)
type ThicknessSource interface {
	// UserThickness — толщина, заданная пользователем для точного подтипа
	UserThickness(subType string) (float64, bool)
	// ActiveThickness — текущая толщина по умолчанию для подтипа
	ActiveThickness(subType string) (float64, bool)
	// TypeThickness — толщина по умолчанию для типа элемента
	TypeThickness(t unit.Type) (float64, bool)
}

// ResolveThickness выбирает толщину шва по приоритету: пользовательская
// для подтипа, активная для подтипа, по типу, затем DefaultThickness.
// Непозитивные и нечисловые значения пропускаются.
func ResolveThickness(src ThicknessSource, subType string, t unit.Type) float64 {
	if src == nil {
		return DefaultThickness
	}

	lookups := []func() (float64, bool){
		func() (float64, bool) { return src.UserThickness(subType) },
		func() (float64, bool) { return src.ActiveThickness(subType) },
		func() (float64, bool) { return src.TypeThickness(t) },
	}
	for _, lookup := range lookups {
		if v, ok := lookup(); ok && vec.IsFinite(v) && v > 0 {
			return v
		}
	}
	return DefaultThickness
}
