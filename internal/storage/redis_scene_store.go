package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/annel0/masonry/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisSceneStore хранит сцены в Redis в виде JSON
type RedisSceneStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOptions содержит настройки подключения к Redis
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisSceneStore подключается к Redis и проверяет соединение
func NewRedisSceneStore(ctx context.Context, opts RedisOptions) (*RedisSceneStore, error) {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "masonry:scene:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("✅ RedisSceneStore подключен к %s", opts.Addr)
	return &RedisSceneStore{client: client, keyPrefix: opts.KeyPrefix}, nil
}

func (r *RedisSceneStore) key(name string) string {
	return r.keyPrefix + name
}

func (r *RedisSceneStore) Save(ctx context.Context, scene *Scene) error {
	if err := ValidateSceneName(scene.Name); err != nil {
		return err
	}
	data, err := json.Marshal(scene)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сцены: %w", err)
	}
	if err := r.client.Set(ctx, r.key(scene.Name), data, 0).Err(); err != nil {
		return fmt.Errorf("ошибка записи в Redis: %w", err)
	}
	return nil
}

func (r *RedisSceneStore) Load(ctx context.Context, name string) (*Scene, error) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из Redis: %w", err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сцены: %w", err)
	}
	return &s, nil
}

func (r *RedisSceneStore) Delete(ctx context.Context, name string) error {
	n, err := r.client.Del(ctx, r.key(name)).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления из Redis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	return nil
}

func (r *RedisSceneStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, iter.Val()[len(r.keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения из Redis: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *RedisSceneStore) Close() error {
	return r.client.Close()
}
