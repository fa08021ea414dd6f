package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemorySceneStore хранит сцены в памяти процесса
type MemorySceneStore struct {
	mu     sync.RWMutex
	scenes map[string]*Scene
}

// NewMemorySceneStore создает пустое хранилище
func NewMemorySceneStore() *MemorySceneStore {
	return &MemorySceneStore{scenes: make(map[string]*Scene)}
}

func (m *MemorySceneStore) Save(_ context.Context, scene *Scene) error {
	if err := ValidateSceneName(scene.Name); err != nil {
		return err
	}
	m.mu.Lock()
	m.scenes[scene.Name] = cloneScene(scene)
	m.mu.Unlock()
	return nil
}

func (m *MemorySceneStore) Load(_ context.Context, name string) (*Scene, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	return cloneScene(s), nil
}

func (m *MemorySceneStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	delete(m.scenes, name)
	return nil
}

func (m *MemorySceneStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.scenes))
	for name := range m.scenes {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (m *MemorySceneStore) Close() error { return nil }
