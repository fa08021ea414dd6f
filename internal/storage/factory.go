package storage

import (
	"context"
	"fmt"

	"github.com/annel0/masonry/internal/config"
)

// Open создает хранилище сцен по конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (SceneStore, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemorySceneStore(), nil
	case "badger":
		return NewBadgerSceneStore(cfg.Path)
	case "redis":
		return NewRedisSceneStore(ctx, RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %q", cfg.Driver)
	}
}
