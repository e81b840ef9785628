// Package config loads server settings from the environment, with command
// line flags taking precedence over environment values.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/KirkDiggler/expedition-api/internal/drivers"
	"github.com/KirkDiggler/expedition-api/internal/engine/autoreturn"
	"github.com/KirkDiggler/expedition-api/internal/engine/collection"
	"github.com/KirkDiggler/expedition-api/internal/engine/combat"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
	redisclient "github.com/KirkDiggler/expedition-api/internal/redis"
)

// Config is the full server configuration
type Config struct {
	GRPCPort    int    `env:"EXPEDITION_GRPC_PORT" envDefault:"50051"`
	RedisAddr   string `env:"EXPEDITION_REDIS_ADDR" envDefault:"localhost:6379"`
	ArchivePath string `env:"EXPEDITION_ARCHIVE_PATH" envDefault:"expedition-archive.db"`
	// CatalogDir replaces the embedded catalog when set
	CatalogDir string `env:"EXPEDITION_CATALOG_DIR"`
	LogLevel   string `env:"EXPEDITION_LOG_LEVEL" envDefault:"info"`
	LogJSON    bool   `env:"EXPEDITION_LOG_JSON" envDefault:"false"`

	Redis    Redis    `envPrefix:"EXPEDITION_REDIS_"`
	Gameplay Gameplay `envPrefix:"EXPEDITION_"`
	Drivers  Drivers  `envPrefix:"EXPEDITION_DRIVER_"`
}

// Redis holds the connection pool settings of the live stores
type Redis struct {
	// ClusterAddrs switches to cluster mode and takes precedence over RedisAddr
	ClusterAddrs    []string      `env:"CLUSTER_ADDRS" envSeparator:","`
	PoolSize        int           `env:"POOL_SIZE" envDefault:"20"`
	MinIdleConns    int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"3"`
	UseTLS          bool          `env:"TLS" envDefault:"false"`
	ReadOnly        bool          `env:"READ_ONLY" envDefault:"false"`
}

// Gameplay holds every tunable rule of expeditions and combat
type Gameplay struct {
	HungerPerMinute  float64       `env:"HUNGER_PER_MINUTE" envDefault:"0.5"`
	ThirstPerMinute  float64       `env:"THIRST_PER_MINUTE" envDefault:"0.5"`
	FatiguePerMinute float64       `env:"FATIGUE_PER_MINUTE" envDefault:"0.25"`
	FutureTolerance  time.Duration `env:"FUTURE_TOLERANCE" envDefault:"1m"`

	CollectionHungerPerUnit int           `env:"COLLECTION_HUNGER_PER_UNIT" envDefault:"1"`
	CollectionThirstPerUnit int           `env:"COLLECTION_THIRST_PER_UNIT" envDefault:"1"`
	CollectionMinStep       time.Duration `env:"COLLECTION_MIN_STEP" envDefault:"10s"`

	ReturnCapacityRatio float64 `env:"RETURN_CAPACITY_RATIO" envDefault:"0.9"`
	ReturnMinHunger     int     `env:"RETURN_MIN_HUNGER" envDefault:"10"`
	ReturnMinThirst     int     `env:"RETURN_MIN_THIRST" envDefault:"10"`

	EncounterChance          float64 `env:"ENCOUNTER_CHANCE" envDefault:"0.3"`
	FleeChance               float64 `env:"FLEE_CHANCE" envDefault:"0.7"`
	MinDamageMultiplier      float64 `env:"MIN_DAMAGE_MULTIPLIER" envDefault:"0.8"`
	MaxDamageMultiplier      float64 `env:"MAX_DAMAGE_MULTIPLIER" envDefault:"1.2"`
	DefendDivisor            int     `env:"DEFEND_DIVISOR" envDefault:"2"`
	AnalyzeExperienceDivisor int     `env:"ANALYZE_EXPERIENCE_DIVISOR" envDefault:"4"`
	DefeatHungerPenalty      int     `env:"DEFEAT_HUNGER_PENALTY" envDefault:"20"`
	DefeatThirstPenalty      int     `env:"DEFEAT_THIRST_PENALTY" envDefault:"20"`
}

// Drivers holds the periodic driver settings
type Drivers struct {
	Enabled          bool          `env:"ENABLED" envDefault:"true"`
	ProgressInterval time.Duration `env:"PROGRESS_INTERVAL" envDefault:"30s"`
	DecayInterval    time.Duration `env:"DECAY_INTERVAL" envDefault:"1m"`
	HistoryInterval  time.Duration `env:"HISTORY_INTERVAL" envDefault:"10m"`
	GracePeriod      time.Duration `env:"GRACE_PERIOD" envDefault:"24h"`
	HistoryBatch     int           `env:"HISTORY_BATCH" envDefault:"100"`
	DecayHunger      int           `env:"DECAY_HUNGER" envDefault:"1"`
	DecayThirst      int           `env:"DECAY_THIRST" envDefault:"1"`
	FatigueRecovery  int           `env:"FATIGUE_RECOVERY" envDefault:"2"`
}

// Load parses the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// Defaults returns the configuration with no environment applied
func Defaults() *Config {
	cfg, err := parse(env.Options{Environment: map[string]string{}})
	if err != nil {
		// the envDefault tags are constants; failing here is a programming error
		panic(err)
	}
	return cfg
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return cfg, nil
}

// Validate checks ranges the rest of the server relies on
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		vb.Fieldf("GRPCPort", "must be a valid port, got %d", c.GRPCPort)
	}
	if c.RedisAddr == "" && len(c.Redis.ClusterAddrs) == 0 {
		vb.RequiredField("RedisAddr")
	}
	if c.Redis.PoolSize < 0 || c.Redis.MinIdleConns < 0 {
		vb.Field("Redis", "pool sizes cannot be negative")
	}
	if c.ArchivePath == "" {
		vb.RequiredField("ArchivePath")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("LogLevel", "unknown level %q", c.LogLevel)
	}

	g := c.Gameplay
	if g.EncounterChance < 0 || g.EncounterChance > 1 {
		vb.Field("EncounterChance", "must be in [0,1]")
	}
	if g.FleeChance < 0 || g.FleeChance > 1 {
		vb.Field("FleeChance", "must be in [0,1]")
	}
	if g.MinDamageMultiplier <= 0 || g.MaxDamageMultiplier < g.MinDamageMultiplier {
		vb.Field("DamageMultiplier", "range must be positive and ordered")
	}
	if g.ReturnCapacityRatio <= 0 || g.ReturnCapacityRatio > 1 {
		vb.Field("ReturnCapacityRatio", "must be in (0,1]")
	}
	if g.CollectionMinStep <= 0 {
		vb.Field("CollectionMinStep", "must be positive")
	}

	d := c.Drivers
	if d.Enabled && (d.ProgressInterval <= 0 || d.DecayInterval <= 0 || d.HistoryInterval <= 0) {
		vb.Field("Drivers", "intervals must be positive")
	}

	return vb.Build()
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// ExpeditionRules converts the gameplay settings for the lifecycle orchestrator
func (c *Config) ExpeditionRules() *expedition.Rules {
	g := c.Gameplay
	return &expedition.Rules{
		HungerPerMinute:  g.HungerPerMinute,
		ThirstPerMinute:  g.ThirstPerMinute,
		FatiguePerMinute: g.FatiguePerMinute,
		FutureTolerance:  g.FutureTolerance,
		Collection: collection.Config{
			HungerPerUnit: g.CollectionHungerPerUnit,
			ThirstPerUnit: g.CollectionThirstPerUnit,
			MinStep:       g.CollectionMinStep,
		},
		AutoReturn: autoreturn.Thresholds{
			CapacityRatio: g.ReturnCapacityRatio,
			MinHunger:     g.ReturnMinHunger,
			MinThirst:     g.ReturnMinThirst,
		},
	}
}

// CombatConfig converts the gameplay settings for the combat engine
func (c *Config) CombatConfig() combat.Config {
	g := c.Gameplay
	return combat.Config{
		FleeChance:               g.FleeChance,
		MinMultiplier:            g.MinDamageMultiplier,
		MaxMultiplier:            g.MaxDamageMultiplier,
		DefendDivisor:            g.DefendDivisor,
		AnalyzeExperienceDivisor: g.AnalyzeExperienceDivisor,
		DefeatHungerPenalty:      g.DefeatHungerPenalty,
		DefeatThirstPenalty:      g.DefeatThirstPenalty,
	}
}

// RedisOptions converts the pool settings for the redis client
func (c *Config) RedisOptions() *redisclient.Options {
	return &redisclient.Options{
		PoolSize:        c.Redis.PoolSize,
		MinIdleConns:    c.Redis.MinIdleConns,
		ConnMaxIdleTime: c.Redis.ConnMaxIdleTime,
		MaxRetries:      c.Redis.MaxRetries,
		UseTLS:          c.Redis.UseTLS,
		ReadOnly:        c.Redis.ReadOnly,
	}
}

// DecayRates converts the driver settings for the survival decay driver
func (c *Config) DecayRates() drivers.DecayRates {
	return drivers.DecayRates{
		Hunger:          c.Drivers.DecayHunger,
		Thirst:          c.Drivers.DecayThirst,
		FatigueRecovery: c.Drivers.FatigueRecovery,
	}
}

// Flags registers command line overrides. Values only replace the
// environment when the flag was set explicitly.
type Flags struct {
	fs     *pflag.FlagSet
	values *Config
}

// BindFlags registers the override flags on fs
func BindFlags(fs *pflag.FlagSet) *Flags {
	d := Defaults()
	f := &Flags{fs: fs, values: d}

	fs.IntVar(&d.GRPCPort, "port", d.GRPCPort, "gRPC server port")
	fs.StringVar(&d.RedisAddr, "redis-addr", d.RedisAddr, "Redis address")
	fs.StringSliceVar(&d.Redis.ClusterAddrs, "redis-cluster", d.Redis.ClusterAddrs, "Redis cluster endpoints, replaces --redis-addr")
	fs.StringVar(&d.ArchivePath, "archive-path", d.ArchivePath, "SQLite archive file")
	fs.StringVar(&d.CatalogDir, "catalog-dir", d.CatalogDir, "directory with catalog YAML files")
	fs.StringVar(&d.LogLevel, "log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&d.LogJSON, "log-json", d.LogJSON, "emit JSON logs")
	fs.Float64Var(&d.Gameplay.EncounterChance, "encounter-chance", d.Gameplay.EncounterChance, "probability of an encounter roll")
	fs.Float64Var(&d.Gameplay.FleeChance, "flee-chance", d.Gameplay.FleeChance, "probability a flee attempt succeeds")
	fs.BoolVar(&d.Drivers.Enabled, "drivers", d.Drivers.Enabled, "run the periodic drivers")
	fs.DurationVar(&d.Drivers.ProgressInterval, "progress-interval", d.Drivers.ProgressInterval, "progress driver interval")
	fs.DurationVar(&d.Drivers.GracePeriod, "grace-period", d.Drivers.GracePeriod, "history retention before archival")

	return f
}

// Load parses the environment, then applies explicitly set flags
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *Flags) apply(cfg *Config) {
	v := f.values
	overrides := map[string]func(){
		"port":              func() { cfg.GRPCPort = v.GRPCPort },
		"redis-addr":        func() { cfg.RedisAddr = v.RedisAddr },
		"redis-cluster":     func() { cfg.Redis.ClusterAddrs = v.Redis.ClusterAddrs },
		"archive-path":      func() { cfg.ArchivePath = v.ArchivePath },
		"catalog-dir":       func() { cfg.CatalogDir = v.CatalogDir },
		"log-level":         func() { cfg.LogLevel = v.LogLevel },
		"log-json":          func() { cfg.LogJSON = v.LogJSON },
		"encounter-chance":  func() { cfg.Gameplay.EncounterChance = v.Gameplay.EncounterChance },
		"flee-chance":       func() { cfg.Gameplay.FleeChance = v.Gameplay.FleeChance },
		"drivers":           func() { cfg.Drivers.Enabled = v.Drivers.Enabled },
		"progress-interval": func() { cfg.Drivers.ProgressInterval = v.Drivers.ProgressInterval },
		"grace-period":      func() { cfg.Drivers.GracePeriod = v.Drivers.GracePeriod },
	}
	for name, set := range overrides {
		if f.fs.Changed(name) {
			set()
		}
	}
}
