// Package config resolves draftkit settings from defaults, an optional
// .draftkit.yaml, DRAFTKIT_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// EnvPrefix is the environment variable prefix for every key
const EnvPrefix = "DRAFTKIT"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration
type Config struct {
	Environment     string        `mapstructure:"environment"`
	LogLevel        string        `mapstructure:"log-level"`
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc-port"`
	DBDriver        string        `mapstructure:"db-driver"`
	SQLiteFile      string        `mapstructure:"sqlite-file"`
	DatabaseURL     string        `mapstructure:"database-url"`
	NATSURL         string        `mapstructure:"nats-url"`
	NATSSubject     string        `mapstructure:"nats-subject"`
	ClickHouseAddr  string        `mapstructure:"clickhouse-addr"`
	ClickHouseDB    string        `mapstructure:"clickhouse-db"`
	ClickHouseUser  string        `mapstructure:"clickhouse-user"`
	ClickHousePass  string        `mapstructure:"clickhouse-password"`
	ADPSyncInterval time.Duration `mapstructure:"adp-sync-interval"`
	ADPSimulate     bool          `mapstructure:"adp-simulate"`

	League    LeagueConfig      `mapstructure:"league"`
	AutoDraft AutoDraftConfig   `mapstructure:"autodraft"`
	Keepers   KeeperConfig      `mapstructure:"keepers"`
	Analytics engine.Thresholds `mapstructure:"analytics"`
	Advisor   AdvisorConfig     `mapstructure:"advisor"`
	Auth      AuthConfig        `mapstructure:"auth"`
}

// LeagueConfig is the draft shape
type LeagueConfig struct {
	Teams  int `mapstructure:"teams"`
	Rounds int `mapstructure:"rounds"`
}

// AutoDraftConfig is the raw form of models.AutoDraftConfig
type AutoDraftConfig struct {
	Strategy         string         `mapstructure:"strategy"`
	Risk             string         `mapstructure:"risk"`
	AvoidInjuryProne bool           `mapstructure:"avoid-injury-prone"`
	PreferVeterans   bool           `mapstructure:"prefer-veterans"`
	AdvisorTimeout   time.Duration  `mapstructure:"advisor-timeout"`
	PositionPriority []string       `mapstructure:"position-priority"`
	Roster           map[string]int `mapstructure:"roster"`
}

// KeeperConfig is the raw form of models.KeeperLeagueConfig
type KeeperConfig struct {
	MaxKeepers int     `mapstructure:"max-keepers"`
	CapEnabled bool    `mapstructure:"cap-enabled"`
	CapAmount  float64 `mapstructure:"cap-amount"`
	CostModel  string  `mapstructure:"cost-model"`
}

// AdvisorConfig configures the Ollama tie-break advisor
type AdvisorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base-url"`
	Model     string        `mapstructure:"model"`
	RateLimit time.Duration `mapstructure:"rate-limit"`
}

// AuthConfig configures Authentik OAuth2
type AuthConfig struct {
	Provider     string `mapstructure:"provider"` // mock or authentik
	BaseURL      string `mapstructure:"base-url"`
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret"`
	RedirectURL  string `mapstructure:"redirect-url"`
	AppSlug      string `mapstructure:"app-slug"`
	AdminGroup   string `mapstructure:"admin-group"`
}

// SetDefaults registers every key with its default so env overrides resolve
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log-level", "info")
	v.SetDefault("port", 3000)
	v.SetDefault("grpc-port", 50051)
	v.SetDefault("db-driver", "memory")
	v.SetDefault("sqlite-file", "draftkit.sqlite")
	v.SetDefault("database-url", "")
	v.SetDefault("nats-url", "nats://localhost:4222")
	v.SetDefault("nats-subject", "draft.events")
	v.SetDefault("clickhouse-addr", "")
	v.SetDefault("clickhouse-db", "default")
	v.SetDefault("clickhouse-user", "default")
	v.SetDefault("clickhouse-password", "")
	v.SetDefault("adp-sync-interval", "5m")
	v.SetDefault("adp-simulate", false)

	v.SetDefault("league.teams", 12)
	v.SetDefault("league.rounds", 15)

	def := models.DefaultAutoDraftConfig()
	v.SetDefault("autodraft.strategy", string(def.Strategy))
	v.SetDefault("autodraft.risk", string(def.RiskTolerance))
	v.SetDefault("autodraft.avoid-injury-prone", def.AvoidInjuryProne)
	v.SetDefault("autodraft.prefer-veterans", def.PreferVeterans)
	v.SetDefault("autodraft.advisor-timeout", def.Timeout.AdvisorTimeout.String())
	priority := make([]string, 0, len(def.PositionPriority))
	for _, p := range def.PositionPriority {
		priority = append(priority, string(p))
	}
	v.SetDefault("autodraft.position-priority", priority)
	roster := make(map[string]int, len(def.TargetComposition))
	for p, n := range def.TargetComposition {
		roster[string(p)] = n
	}
	v.SetDefault("autodraft.roster", roster)

	v.SetDefault("keepers.max-keepers", 3)
	v.SetDefault("keepers.cap-enabled", false)
	v.SetDefault("keepers.cap-amount", 200.0)
	v.SetDefault("keepers.cost-model", string(models.CostModelAuction))

	th := engine.DefaultThresholds()
	v.SetDefault("analytics.value-pick", th.ValuePick)
	v.SetDefault("analytics.reach", th.Reach)
	v.SetDefault("analytics.steal", th.Steal)

	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.base-url", "http://localhost:11434")
	v.SetDefault("advisor.model", "llama3.2")
	v.SetDefault("advisor.rate-limit", "1s")

	v.SetDefault("auth.provider", "mock")
	v.SetDefault("auth.base-url", "")
	v.SetDefault("auth.client-id", "")
	v.SetDefault("auth.client-secret", "")
	v.SetDefault("auth.redirect-url", "http://localhost:3000/auth/callback")
	v.SetDefault("auth.app-slug", "draftkit")
	v.SetDefault("auth.admin-group", "authentik Admins")
}

// Prepare sets up file lookup and environment binding on v. An empty
// configFile searches for .draftkit.yaml in the working and home directories.
func Prepare(v *viper.Viper, configFile string) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".draftkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Load reads the config file if there is one and unmarshals and validates the result
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the rest of the service relies on
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db-driver %q (valid: memory, sqlite, postgres): %w", c.DBDriver, ErrInvalidConfig)
	}
	if c.DBDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("database-url is required for postgres: %w", ErrInvalidConfig)
	}
	if c.League.Teams < 2 || c.League.Rounds < 1 {
		return fmt.Errorf("league needs at least 2 teams and 1 round, got %d and %d: %w", c.League.Teams, c.League.Rounds, ErrInvalidConfig)
	}
	if !models.ParseStrategy(c.AutoDraft.Strategy).Valid() {
		return fmt.Errorf("unknown autodraft strategy %q: %w", c.AutoDraft.Strategy, ErrInvalidConfig)
	}
	for name := range c.AutoDraft.Roster {
		if _, ok := models.ParsePosition(name); !ok {
			return fmt.Errorf("unknown roster position %q: %w", name, ErrInvalidConfig)
		}
	}
	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch models.CostModel(strings.ToUpper(c.Keepers.CostModel)) {
	case models.CostModelAuction, models.CostModelRound:
	default:
		return fmt.Errorf("unknown keeper cost-model %q: %w", c.Keepers.CostModel, ErrInvalidConfig)
	}
	if c.Auth.Provider == "authentik" && (c.Auth.BaseURL == "" || c.Auth.ClientID == "" || c.Auth.ClientSecret == "") {
		return fmt.Errorf("auth base-url, client-id and client-secret are required for authentik: %w", ErrInvalidConfig)
	}
	return nil
}

// IsDevelopment reports whether embedded services and mock auth should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// AutoDraftModel converts the raw autodraft settings
func (c *Config) AutoDraftModel() models.AutoDraftConfig {
	out := models.AutoDraftConfig{
		Strategy:          models.ParseStrategy(c.AutoDraft.Strategy),
		RiskTolerance:     models.ParseRiskTolerance(c.AutoDraft.Risk),
		AvoidInjuryProne:  c.AutoDraft.AvoidInjuryProne,
		PreferVeterans:    c.AutoDraft.PreferVeterans,
		TargetComposition: make(map[models.Position]int, len(c.AutoDraft.Roster)),
		Timeout: models.TimeoutPolicy{
			AdvisorTimeout: c.AutoDraft.AdvisorTimeout,
		},
	}
	for _, name := range c.AutoDraft.PositionPriority {
		if p, ok := models.ParsePosition(name); ok {
			out.PositionPriority = append(out.PositionPriority, p)
		}
	}
	for name, n := range c.AutoDraft.Roster {
		if p, ok := models.ParsePosition(name); ok {
			out.TargetComposition[p] = n
		}
	}
	return out
}

// KeeperModel converts the raw keeper settings
func (c *Config) KeeperModel() models.KeeperLeagueConfig {
	return models.KeeperLeagueConfig{
		MaxKeepers: c.Keepers.MaxKeepers,
		CapEnabled: c.Keepers.CapEnabled,
		CapAmount:  c.Keepers.CapAmount,
		CostModel:  models.CostModel(strings.ToUpper(c.Keepers.CostModel)),
	}
}
