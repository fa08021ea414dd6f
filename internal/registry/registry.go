package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/masonry/internal/unit"
)

var (
	ErrDuplicateID = errors.New("элемент с таким id уже существует")
	ErrNotFound    = errors.New("элемент не найден")
	ErrEmptyID     = errors.New("пустой id элемента")
)

// Registry хранит авторитетный набор размещенных элементов.
// Все методы возвращают копии, поэтому вызывающий код никогда не видит
// частично вставленный или изменяемый элемент.
type Registry struct {
	mu    sync.RWMutex
	units map[string]*unit.Unit
}

// New создает пустой реестр элементов
func New() *Registry {
	return &Registry{
		units: make(map[string]*unit.Unit),
	}
}

// Add добавляет элемент в реестр. Id должен быть уникальным.
func (r *Registry) Add(u *unit.Unit) error {
	if u == nil || u.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.units[u.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, u.ID)
	}
	r.units[u.ID] = u.Clone()
	return nil
}

// Update заменяет существующий элемент с тем же id
func (r *Registry) Update(u *unit.Unit) error {
	if u == nil || u.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.units[u.ID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, u.ID)
	}
	r.units[u.ID] = u.Clone()
	return nil
}

// Get возвращает копию элемента по id
func (r *Registry) Get(id string) (*unit.Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.units[id]
	if !exists {
		return nil, false
	}
	return u.Clone(), true
}

// Remove удаляет элемент и возвращает его. Связанные швы не удаляются.
func (r *Registry) Remove(id string) (*unit.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.units[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.units, id)
	return u, nil
}

// Len возвращает количество элементов
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}

// All возвращает копии всех элементов, отсортированные по id
func (r *Registry) All() []*unit.Unit {
	return r.filter(func(*unit.Unit) bool { return true })
}

// Structural возвращает все элементы, кроме швов
func (r *Registry) Structural() []*unit.Unit {
	return r.filter(func(u *unit.Unit) bool { return !u.IsJoint() })
}

// Joints возвращает все швы
func (r *Registry) Joints() []*unit.Unit {
	return r.filter(func(u *unit.Unit) bool { return u.IsJoint() })
}

// JointsOf возвращает швы, привязанные к родительскому элементу
func (r *Registry) JointsOf(parentID string) []*unit.Unit {
	return r.filter(func(u *unit.Unit) bool { return u.IsJoint() && u.ParentID == parentID })
}

// Counts возвращает количество элементов по типам
func (r *Registry) Counts() map[unit.Type]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[unit.Type]int)
	for _, u := range r.units {
		counts[u.Type]++
	}
	return counts
}

// Reset заменяет содержимое реестра набором элементов.
// При ошибке (повтор id) реестр остается прежним.
func (r *Registry) Reset(units []*unit.Unit) error {
	next := make(map[string]*unit.Unit, len(units))
	for _, u := range units {
		if u == nil || u.ID == "" {
			return ErrEmptyID
		}
		if _, exists := next[u.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, u.ID)
		}
		next[u.ID] = u.Clone()
	}

	r.mu.Lock()
	r.units = next
	r.mu.Unlock()
	return nil
}

func (r *Registry) filter(keep func(*unit.Unit) bool) []*unit.Unit {
	r.mu.RLock()
	out := make([]*unit.Unit, 0, len(r.units))
	for _, u := range r.units {
		if keep(u) {
			out = append(out, u.Clone())
		}
	}
	r.mu.RUnlock()

	// Детерминированный порядок обхода для поиска соседей и тестов
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
