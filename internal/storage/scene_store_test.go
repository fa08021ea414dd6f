package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/annel0/masonry/internal/config"
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUnits() []*unit.Unit {
	return []*unit.Unit{
		{ID: "b1", Type: unit.TypeBrick, SubType: "M65", Position: vec.Vec3Float{X: 0, Y: 4.45, Z: 0},
			Rotation: 1.5707963267948966, Dimensions: unit.Dimensions{Length: 21, Width: 10, Height: 6.5}, CourseTracked: true},
		{ID: "j1", Type: unit.TypeJoint, SubType: "M65", ParentID: "b1", Orientation: unit.OrientationHorizontal,
			Position: vec.Vec3Float{Y: 0.6}, Dimensions: unit.Dimensions{Length: 21, Width: 10, Height: 1.2}, CourseTracked: true},
	}
}

// runSceneStoreContract проверяет общее поведение всех реализаций SceneStore
func runSceneStoreContract(t *testing.T, store SceneStore) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		scene := NewScene("wall-a", sampleUnits())
		require.NoError(t, store.Save(ctx, scene))

		loaded, err := store.Load(ctx, "wall-a")
		require.NoError(t, err)
		if diff := cmp.Diff(sampleUnits(), loaded.Units); diff != "" {
			t.Errorf("элементы сцены отличаются (-want +got):\n%s", diff)
		}
		assert.Equal(t, SceneFormatVersion, loaded.Version)
		assert.True(t, scene.SavedAt.Equal(loaded.SavedAt))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, NewScene("wall-a", sampleUnits()[:1])))
		loaded, err := store.Load(ctx, "wall-a")
		require.NoError(t, err)
		assert.Len(t, loaded.Units, 1)
	})

	t.Run("List sorted", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, NewScene("basement", nil)))
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"basement", "wall-a"}, names)
	})

	t.Run("Missing scene", func(t *testing.T) {
		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, ErrSceneNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "nope"), ErrSceneNotFound)
	})

	t.Run("Invalid name", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, NewScene("", nil)), ErrInvalidSceneName)
		assert.ErrorIs(t, store.Save(ctx, NewScene("a b", nil)), ErrInvalidSceneName)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "basement"))
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"wall-a"}, names)
	})
}

func TestMemorySceneStore(t *testing.T) {
	store := NewMemorySceneStore()
	defer store.Close()
	runSceneStoreContract(t, store)
}

func TestMemorySceneStore_IsolatesCopies(t *testing.T) {
	store := NewMemorySceneStore()
	ctx := context.Background()
	units := sampleUnits()
	require.NoError(t, store.Save(ctx, NewScene("s", units)))

	units[0].Position.X = 100
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	loaded.Units[0].Position.Y = 100

	again, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 0.0, again.Units[0].Position.X)
	assert.Equal(t, 4.45, again.Units[0].Position.Y)
}

func TestBadgerSceneStore(t *testing.T) {
	store, err := NewBadgerSceneStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	runSceneStoreContract(t, store)
}

func TestBadgerSceneStore_InMemoryAndClosed(t *testing.T) {
	store, err := NewBadgerSceneStore("")
	require.NoError(t, err)
	runSceneStoreContract(t, store)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	_, err = store.Load(context.Background(), "wall-a")
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestBadgerSceneStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerSceneStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, NewScene("wall", sampleUnits())))
	require.NoError(t, store.Close())

	store, err = NewBadgerSceneStore(dir)
	require.NoError(t, err)
	defer store.Close()
	loaded, err := store.Load(ctx, "wall")
	require.NoError(t, err)
	assert.Len(t, loaded.Units, 2)
}

func TestSceneCodec_Compresses(t *testing.T) {
	codec, err := newSceneCodec()
	require.NoError(t, err)
	defer codec.close()

	units := make([]*unit.Unit, 0, 200)
	for i := 0; i < 200; i++ {
		u := sampleUnits()[0]
		u.Position.X = float64(i) * 21
		units = append(units, u)
	}
	data, err := codec.encode(NewScene("big", units))
	require.NoError(t, err)

	decoded, err := codec.decode(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Units, 200)

	_, err = codec.decode([]byte("not zstd"))
	assert.Error(t, err)
}

func newTestRedisStore(t *testing.T) (*RedisSceneStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisSceneStore(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisSceneStore(t *testing.T) {
	store, mr := newTestRedisStore(t)
	runSceneStoreContract(t, store)
	assert.True(t, mr.Exists("masonry:scene:wall-a"))
}

func TestRedisSceneStore_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisSceneStore(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemorySceneStore{}, store)

	store, err = Open(ctx, config.StorageConfig{Driver: "badger", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &BadgerSceneStore{}, store)
	require.NoError(t, store.Close())

	mr := miniredis.RunT(t)
	store, err = Open(ctx, config.StorageConfig{Driver: "redis", Redis: config.RedisConfig{Addr: mr.Addr()}})
	require.NoError(t, err)
	assert.IsType(t, &RedisSceneStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "cassandra"})
	assert.Error(t, err)
}
