package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBatchConfig_CreatesDefault(t *testing.T) {
	t.Setenv("ADEQUACY_CONFIG_DIR", t.TempDir())

	cfg, err := LoadBatchConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultWindowHours, cfg.WindowHours)
	assert.Equal(t, 1, cfg.Workers)
	assert.NotEmpty(t, cfg.DatasetDir)
	assert.NotEmpty(t, cfg.CacheDbPath)

	// The created default is validated like a loaded file: reloading
	// the written file yields the identical config.
	again, err := LoadBatchConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadBatchConfig_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ADEQUACY_CONFIG_DIR", dir)

	contents := `
dataset_dir = "/srv/datasets"
cache_db_path = "/srv/cache.db"
target_year = 2040
weather_year = 2017
window_hours = 72
workers = 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "batch.toml"), []byte(contents), 0o644))

	cfg, err := LoadBatchConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/datasets", cfg.DatasetDir)
	assert.Equal(t, 2040, cfg.TargetYear)
	assert.Equal(t, 2017, cfg.WeatherYear)
	assert.Equal(t, 72, cfg.WindowHours)
	assert.Equal(t, 4, cfg.Workers)
}

func TestValidate_DefaultsAndBounds(t *testing.T) {
	cfg := BatchConfig{DatasetDir: "/srv/datasets"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.DefaultWindowHours, cfg.WindowHours)
	assert.Equal(t, 1, cfg.Workers)
	assert.NotEmpty(t, cfg.CacheDbPath)

	bad := BatchConfig{DatasetDir: "/srv/datasets", WindowHours: types.HoursPerYear + 1}
	assert.Error(t, bad.Validate())

	missing := BatchConfig{}
	assert.Error(t, missing.Validate())
}
