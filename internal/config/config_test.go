package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/masonry/internal/joint"
	"github.com/annel0/masonry/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
masonry:
  grid_spacing: 0.25
  course_band_height: 8
  element_heights:
    brick: 5
  joints:
    by_type:
      brick: 1.5
    active:
      M65: 1.1
    user:
      M65_HALF: 0.9
storage:
  driver: badger
  path: /tmp/scenes
server:
  rest_port: 9000
`

func TestLoad_FileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Masonry.GridSpacing)
	assert.Equal(t, 8.0, cfg.Masonry.CourseBandHeight)
	assert.Equal(t, 5.0, cfg.Masonry.StackTolerance, "незаданный допуск берется по умолчанию")
	assert.Equal(t, 5.0, cfg.Masonry.ElementHeights["brick"])
	assert.Equal(t, 19.0, cfg.Masonry.ElementHeights["block"])
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, "MASONRY", cfg.EventBus.Stream)
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())

	table := cfg.Masonry.CourseTable()
	assert.Equal(t, 6.5, table.HeightOfCourse(unit.TypeBrick, 0))
}

func TestLoad_EnvAndDefault(t *testing.T) {
	t.Setenv("MASONRY_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 0.5, cfg.Masonry.GridSpacing)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServerConfig_PortFallback(t *testing.T) {
	t.Setenv("MASONRY_REST_PORT", "7070")
	s := ServerConfig{}
	assert.Equal(t, 7070, s.GetRESTPort())
	assert.Equal(t, 2112, s.GetMetricsPort())

	t.Setenv("MASONRY_REST_PORT", "not-a-port")
	assert.Equal(t, 8088, s.GetRESTPort())
}

func TestThicknessTable_ResolutionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)

	table := NewThicknessTable(cfg.Masonry.Joints)

	assert.Equal(t, 0.9, joint.ResolveThickness(table, "M65_HALF", unit.TypeBrick))
	assert.Equal(t, 1.1, joint.ResolveThickness(table, "M65_3Q", unit.TypeBrick), "активное значение формата без резки")
	assert.Equal(t, 1.5, joint.ResolveThickness(table, "M90", unit.TypeBrick))
	assert.Equal(t, 1.0, joint.ResolveThickness(table, "B14", unit.TypeBlock))

	require.NoError(t, table.SetUserThickness("M90", 0.7))
	assert.Equal(t, 0.7, joint.ResolveThickness(table, "M90", unit.TypeBrick))
	assert.Error(t, table.SetUserThickness("M90", -1))
	assert.Error(t, table.SetUserThickness("", 1))

	table.ClearUserThickness("M90")
	assert.Equal(t, 1.5, joint.ResolveThickness(table, "M90", unit.TypeBrick))
	assert.Equal(t, map[string]float64{"M65_HALF": 0.9}, table.UserOverrides())
}
