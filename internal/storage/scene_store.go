package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/annel0/masonry/internal/unit"
	"github.com/klauspost/compress/zstd"
)

var (
	ErrSceneNotFound    = errors.New("сцена не найдена")
	ErrInvalidSceneName = errors.New("некорректное имя сцены")
	ErrStoreClosed      = errors.New("хранилище закрыто")
)

// SceneFormatVersion версия формата сохраненной сцены
const SceneFormatVersion = 1

// Scene — сохраненный снимок реестра
type Scene struct {
	Name    string       `json:"name"`
	Version int          `json:"version"`
	SavedAt time.Time    `json:"saved_at"`
	Units   []*unit.Unit `json:"units"`
}

// NewScene создает снимок с копиями элементов
func NewScene(name string, units []*unit.Unit) *Scene {
	return &Scene{
		Name:    name,
		Version: SceneFormatVersion,
		SavedAt: time.Now().UTC(),
		Units:   cloneUnits(units),
	}
}

// SceneStore сохраняет и загружает сцены по имени
type SceneStore interface {
	Save(ctx context.Context, scene *Scene) error
	Load(ctx context.Context, name string) (*Scene, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// ValidateSceneName проверяет имя сцены
func ValidateSceneName(name string) error {
	if name == "" || len(name) > 128 || strings.ContainsAny(name, " /\\*?:\n\t") {
		return fmt.Errorf("%w: %q", ErrInvalidSceneName, name)
	}
	return nil
}

func cloneUnits(units []*unit.Unit) []*unit.Unit {
	out := make([]*unit.Unit, 0, len(units))
	for _, u := range units {
		out = append(out, u.Clone())
	}
	return out
}

func cloneScene(s *Scene) *Scene {
	c := *s
	c.Units = cloneUnits(s.Units)
	return &c
}

// sceneCodec сериализует сцену в JSON и сжимает zstd
type sceneCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newSceneCodec() (*sceneCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd компрессор: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("не удалось создать zstd декомпрессор: %w", err)
	}
	return &sceneCodec{enc: enc, dec: dec}, nil
}

func (c *sceneCodec) encode(s *Scene) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации сцены: %w", err)
	}
	return c.enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (c *sceneCodec) decode(data []byte) (*Scene, error) {
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки сцены: %w", err)
	}
	var s Scene
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сцены: %w", err)
	}
	return &s, nil
}

func (c *sceneCodec) close() {
	c.enc.Close()
	c.dec.Close()
}
