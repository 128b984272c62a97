package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	Prepare(v, "")
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, 12, cfg.League.Teams)
	assert.Equal(t, 15, cfg.League.Rounds)
	assert.Equal(t, 5*time.Minute, cfg.ADPSyncInterval)
	assert.True(t, cfg.IsDevelopment())

	ad := cfg.AutoDraftModel()
	assert.Equal(t, models.StrategyBPA, ad.Strategy)
	assert.Equal(t, 5, ad.TargetComposition[models.PositionRB])
	assert.Equal(t, models.PositionRB, ad.PositionPriority[0])
	assert.Equal(t, 5*time.Second, ad.Timeout.AdvisorTimeout)
	assert.Equal(t, 10.0, cfg.Analytics.ValuePick)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draftkit.yaml")
	yaml := `
db-driver: sqlite
sqlite-file: /tmp/draft.sqlite
autodraft:
  strategy: aggressive
  risk: high
  roster:
    QB: 1
    RB: 3
keepers:
  max-keepers: 2
  cap-enabled: true
  cost-model: round
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("DRAFTKIT_LEAGUE_TEAMS", "10")
	t.Setenv("DRAFTKIT_LOG_LEVEL", "debug")

	v := viper.New()
	Prepare(v, path)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10, cfg.League.Teams)
	assert.Equal(t, "debug", cfg.LogLevel)

	ad := cfg.AutoDraftModel()
	assert.Equal(t, models.StrategyAggressive, ad.Strategy)
	assert.Equal(t, models.RiskHigh, ad.RiskTolerance)
	assert.Equal(t, 1, ad.TargetComposition[models.PositionQB])
	assert.Equal(t, 3, ad.TargetComposition[models.PositionRB])

	k := cfg.KeeperModel()
	assert.Equal(t, 2, k.MaxKeepers)
	assert.True(t, k.CapEnabled)
	assert.Equal(t, models.CostModelRound, k.CostModel)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		v := viper.New()
		Prepare(v, "")
		cfg, err := Load(v)
		require.NoError(t, err)
		return cfg
	}

	tests := map[string]func(c *Config){
		"driver":     func(c *Config) { c.DBDriver = "oracle" },
		"postgres":   func(c *Config) { c.DBDriver = "postgres" },
		"teams":      func(c *Config) { c.League.Teams = 1 },
		"strategy":   func(c *Config) { c.AutoDraft.Strategy = "chaos" },
		"roster":     func(c *Config) { c.AutoDraft.Roster = map[string]int{"flex": 1} },
		"thresholds": func(c *Config) { c.Analytics.Steal = 1 },
		"cost model": func(c *Config) { c.Keepers.CostModel = "barter" },
		"authentik":  func(c *Config) { c.Auth.Provider = "authentik" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
