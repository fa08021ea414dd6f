package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/annel0/masonry/internal/logging"
	"github.com/dgraph-io/badger/v3"
)

const badgerScenePrefix = "scene:"

// BadgerSceneStore хранит сцены в BadgerDB, значения сжаты zstd
type BadgerSceneStore struct {
	db      *badger.DB
	codec   *sceneCodec
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerSceneStore открывает хранилище в dataPath/scenes.
// Пустой dataPath — BadgerDB в памяти.
func NewBadgerSceneStore(dataPath string) (*BadgerSceneStore, error) {
	var opts badger.Options
	if dataPath == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(filepath.Join(dataPath, "scenes"))
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	codec, err := newSceneCodec()
	if err != nil {
		return nil, err
	}

	db, err := badger.Open(opts)
	if err != nil {
		codec.close()
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	logging.Info("💾 BadgerSceneStore открыт (%s)", opts.Dir)
	return &BadgerSceneStore{db: db, codec: codec, isReady: true}, nil
}

func sceneKey(name string) []byte {
	return []byte(badgerScenePrefix + name)
}

func (bs *BadgerSceneStore) Save(_ context.Context, scene *Scene) error {
	if err := ValidateSceneName(scene.Name); err != nil {
		return err
	}

	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if !bs.isReady {
		return ErrStoreClosed
	}

	data, err := bs.codec.encode(scene)
	if err != nil {
		return err
	}
	err = bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sceneKey(scene.Name), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

func (bs *BadgerSceneStore) Load(_ context.Context, name string) (*Scene, error) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if !bs.isReady {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sceneKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	return bs.codec.decode(data)
}

func (bs *BadgerSceneStore) Delete(_ context.Context, name string) error {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if !bs.isReady {
		return ErrStoreClosed
	}

	return bs.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(sceneKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrSceneNotFound, name)
			}
			return err
		}
		return txn.Delete(sceneKey(name))
	})
}

func (bs *BadgerSceneStore) List(_ context.Context) ([]string, error) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if !bs.isReady {
		return nil, ErrStoreClosed
	}

	var names []string
	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(badgerScenePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close закрывает хранилище
func (bs *BadgerSceneStore) Close() error {
	bs.mutex.Lock()
	defer bs.mutex.Unlock()

	if !bs.isReady {
		return nil
	}
	bs.isReady = false
	bs.codec.close()
	return bs.db.Close()
}
