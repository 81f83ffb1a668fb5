package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simulation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBackfillsDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  seed: 7
commodities:
  - symbol: WHEAT
    kind: spot
    base_price: 100
    base_demand: 1000
    base_supply: 1000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, 28, cfg.Simulation.DaysPerSeason)
	assert.Equal(t, 240, cfg.Simulation.TicksPerDay)
	assert.Equal(t, []string{"spring", "summer", "fall", "winter"}, cfg.Simulation.SeasonOrder)
	assert.Equal(t, 0.10, cfg.Breaker.MaxMovePct)
	assert.Equal(t, 0.95, cfg.Breaker.ElapsedThreshold)
	assert.Equal(t, 5, cfg.Book.DepthLevels)
	assert.Equal(t, 0.9, cfg.Impact.DecayRate)
	require.Len(t, cfg.Commodities, 1)
	assert.Equal(t, "WHEAT", cfg.Commodities[0].Symbol)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
simulation:
  seed: 1
  days_per_season: 14
  ticks_per_day: 48
  season_order: [wet, dry]
breaker:
  enabled: true
  max_move_pct: 0.05
news:
  - id: flood
    headline: "Flooding closes river ports"
    supply_delta: -80
    duration_days: 3
    probability: 0.2
    requires: [storm-front]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Simulation.DaysPerSeason)
	assert.Equal(t, 48, cfg.Simulation.TicksPerDay)
	assert.Equal(t, []string{"wet", "dry"}, cfg.Simulation.SeasonOrder)
	assert.True(t, cfg.Breaker.Enabled)
	assert.Equal(t, 0.05, cfg.Breaker.MaxMovePct)
	require.Len(t, cfg.News, 1)
	assert.Equal(t, []string{"storm-front"}, cfg.News[0].Requires)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "simulation: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}
