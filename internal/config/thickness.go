package config

import (
	"fmt"
	"sync"

	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
)

// ThicknessTable — источник толщин швов для синтезатора.
// Пользовательские значения можно менять во время работы.
type ThicknessTable struct {
	mu     sync.RWMutex
	user   map[string]float64
	active map[string]float64
	byType map[unit.Type]float64
}

// NewThicknessTable создает таблицу из конфигурации швов
func NewThicknessTable(jc JointConfig) *ThicknessTable {
	t := &ThicknessTable{
		user:   make(map[string]float64, len(jc.User)),
		active: make(map[string]float64, len(jc.Active)),
		byType: make(map[unit.Type]float64, len(jc.ByType)),
	}
	for k, v := range jc.User {
		t.user[k] = v
	}
	for k, v := range jc.Active {
		t.active[k] = v
	}
	for k, v := range jc.ByType {
		t.byType[unit.Type(k)] = v
	}
	return t
}

// UserThickness возвращает толщину, заданную пользователем для точного подтипа
func (t *ThicknessTable) UserThickness(subType string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.user[subType]
	return v, ok
}

// ActiveThickness ищет активную толщину по точному подтипу, затем по формату без резки
func (t *ThicknessTable) ActiveThickness(subType string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.active[subType]; ok {
		return v, true
	}
	v, ok := t.active[unit.ParseSubType(subType).Format]
	return v, ok
}

// TypeThickness возвращает толщину по умолчанию для типа
func (t *ThicknessTable) TypeThickness(typ unit.Type) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.byType[typ]
	return v, ok
}

// SetUserThickness задает пользовательскую толщину для подтипа
func (t *ThicknessTable) SetUserThickness(subType string, value float64) error {
	if subType == "" {
		return fmt.Errorf("пустой подтип")
	}
	if !vec.IsFinite(value) || value <= 0 {
		return fmt.Errorf("толщина шва должна быть положительной: %v", value)
	}
	t.mu.Lock()
	t.user[subType] = value
	t.mu.Unlock()
	return nil
}

// ClearUserThickness удаляет пользовательскую толщину подтипа
func (t *ThicknessTable) ClearUserThickness(subType string) {
	t.mu.Lock()
	delete(t.user, subType)
	t.mu.Unlock()
}

// UserOverrides возвращает копию пользовательских значений
func (t *ThicknessTable) UserOverrides() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]float64, len(t.user))
	for k, v := range t.user {
		out[k] = v
	}
	return out
}
