package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPathingMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadPathing(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPathing(), cfg)
}

func TestLoadPathingOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathing.yaml")
	yml := `
log_level: debug
search:
  max_nodes_pf: 1024
  detailed_distance: 10
estimator:
  med_res_block_size: 16
heat_map:
  enabled: false
cache:
  dir: /tmp/pathcache
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadPathing(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.Search.MaxNodesPF)
	assert.Equal(t, float32(10), cfg.Search.DetailedDistance)
	assert.Equal(t, 16, cfg.Estimator.MedResBlockSize)
	assert.False(t, cfg.HeatMap.Enabled)
	assert.Equal(t, "/tmp/pathcache", cfg.Cache.Dir)

	// untouched fields keep their defaults
	assert.Equal(t, 65536, cfg.Search.MaxNodesPE)
	assert.Equal(t, 32, cfg.Estimator.LowResBlockSize)
	assert.Equal(t, float32(55), cfg.Search.EstimateDistance)
}

func TestLoadPathingRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("estimator:\n  low_res_block_size: 0\n"), 0o644))

	_, err := LoadPathing(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("search: [not, a, map]\n"), 0o644))
	_, err = LoadPathing(path)
	assert.Error(t, err)
}

func TestDefaultPathingValid(t *testing.T) {
	assert.NoError(t, DefaultPathing().Validate())

	cfg := DefaultPathing()
	cfg.Search.DetailedDistance = 80
	assert.Error(t, cfg.Validate())
}
