package unit

import (
	"fmt"
	"sort"
)

// FormatSpec описывает номинальный формат элемента каталога
type FormatSpec struct {
	Code       string     `json:"code"`
	Type       Type       `json:"type"`
	Dimensions Dimensions `json:"dimensions"`
}

var catalog = make(map[string]FormatSpec)

// RegisterFormat добавляет формат в каталог
func RegisterFormat(spec FormatSpec) {
	catalog[spec.Code] = spec
}

// GetFormat возвращает формат по коду (без суффикса резки)
func GetFormat(code string) (FormatSpec, bool) {
	spec, exists := catalog[code]
	return spec, exists
}

// Formats возвращает все зарегистрированные форматы, отсортированные по коду
func Formats() []FormatSpec {
	out := make([]FormatSpec, 0, len(catalog))
	for _, spec := range catalog {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// LookupDimensions возвращает габариты для кода подтипа с учетом резки.
// Резка уменьшает только длину.
func LookupDimensions(t Type, subType string) (Dimensions, error) {
	st := ParseSubType(subType)
	spec, ok := GetFormat(st.Format)
	if !ok {
		return Dimensions{}, fmt.Errorf("формат %q не найден в каталоге", st.Format)
	}
	if t != "" && spec.Type != t {
		return Dimensions{}, fmt.Errorf("формат %q относится к типу %s, а не %s", st.Format, spec.Type, t)
	}
	d := spec.Dimensions
	d.Length *= st.Cut.LengthFactor()
	return d, nil
}

func init() {
	// Кирпичи (длина × ширина × высота, см)
	RegisterFormat(FormatSpec{Code: "M50", Type: TypeBrick, Dimensions: Dimensions{Length: 21, Width: 10, Height: 5}})
	RegisterFormat(FormatSpec{Code: "M57", Type: TypeBrick, Dimensions: Dimensions{Length: 21, Width: 10, Height: 5.7}})
	RegisterFormat(FormatSpec{Code: "M65", Type: TypeBrick, Dimensions: Dimensions{Length: 21, Width: 10, Height: 6.5}})
	RegisterFormat(FormatSpec{Code: "M90", Type: TypeBrick, Dimensions: Dimensions{Length: 21, Width: 10, Height: 9}})
	RegisterFormat(FormatSpec{Code: "DF", Type: TypeBrick, Dimensions: Dimensions{Length: 24, Width: 11.5, Height: 5.2}})

	// Блоки
	RegisterFormat(FormatSpec{Code: "B9", Type: TypeBlock, Dimensions: Dimensions{Length: 39, Width: 9, Height: 19}})
	RegisterFormat(FormatSpec{Code: "B14", Type: TypeBlock, Dimensions: Dimensions{Length: 39, Width: 14, Height: 19}})
	RegisterFormat(FormatSpec{Code: "B19", Type: TypeBlock, Dimensions: Dimensions{Length: 39, Width: 19, Height: 19}})
	RegisterFormat(FormatSpec{Code: "B29", Type: TypeBlock, Dimensions: Dimensions{Length: 39, Width: 29, Height: 19}})

	// Изоляция
	RegisterFormat(FormatSpec{Code: "PUR5", Type: TypeInsulation, Dimensions: Dimensions{Length: 120, Width: 5, Height: 60}})
	RegisterFormat(FormatSpec{Code: "PUR8", Type: TypeInsulation, Dimensions: Dimensions{Length: 120, Width: 8, Height: 60}})
	RegisterFormat(FormatSpec{Code: "PUR10", Type: TypeInsulation, Dimensions: Dimensions{Length: 120, Width: 10, Height: 60}})
}
