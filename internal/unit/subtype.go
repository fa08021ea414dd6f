package unit

import "strings"

// Cut определяет вариант резки элемента по длине
type Cut string

const (
	CutNone         Cut = ""
	CutHalf         Cut = "HALF" // Половинка
	CutThreeQuarter Cut = "3Q"   // Три четверти
	CutQuarter      Cut = "1Q"   // Четвертушка
)

// LengthFactor возвращает долю от полной длины для варианта резки
func (c Cut) LengthFactor() float64 {
	switch c {
	case CutHalf:
		return 0.5
	case CutThreeQuarter:
		return 0.75
	case CutQuarter:
		return 0.25
	default:
		return 1
	}
}

// SubType — разобранный код подтипа: формат и необязательный суффикс резки.
// Пример: "M65_HALF" → {Format: "M65", Cut: CutHalf}.
type SubType struct {
	Format string
	Cut    Cut
}

// ParseSubType разбирает код подтипа. Неизвестный суффикс считается частью формата.
func ParseSubType(code string) SubType {
	code = strings.TrimSpace(code)
	idx := strings.LastIndex(code, "_")
	if idx <= 0 {
		return SubType{Format: code}
	}

	suffix := strings.ToUpper(code[idx+1:])
	switch Cut(suffix) {
	case CutHalf, CutThreeQuarter, CutQuarter:
		return SubType{Format: code[:idx], Cut: Cut(suffix)}
	}
	return SubType{Format: code}
}

// String собирает код подтипа обратно
func (s SubType) String() string {
	if s.Cut == CutNone {
		return s.Format
	}
	return s.Format + "_" + string(s.Cut)
}
