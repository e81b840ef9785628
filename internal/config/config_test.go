package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/expedition-api/internal/config"
	"github.com/KirkDiggler/expedition-api/internal/engine/combat"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
)

func TestDefaults_MatchGameRules(t *testing.T) {
	cfg := config.Defaults()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 0.3, cfg.Gameplay.EncounterChance)
	assert.Equal(t, combat.DefaultConfig(), cfg.CombatConfig())
	rules := expedition.DefaultRules()
	assert.Equal(t, &rules, cfg.ExpeditionRules())
	assert.Equal(t, 24*time.Hour, cfg.Drivers.GracePeriod)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("EXPEDITION_GRPC_PORT", "6000")
	t.Setenv("EXPEDITION_ENCOUNTER_CHANCE", "0.5")
	t.Setenv("EXPEDITION_DRIVER_GRACE_PERIOD", "2h")
	t.Setenv("EXPEDITION_LOG_LEVEL", "debug")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, 0.5, cfg.Gameplay.EncounterChance)
	assert.Equal(t, 2*time.Hour, cfg.Drivers.GracePeriod)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("EXPEDITION_GRPC_PORT", "not-a-port")

	_, err := config.Load()

	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestFlags_OverrideOnlyWhenSet(t *testing.T) {
	// Arrange
	t.Setenv("EXPEDITION_GRPC_PORT", "6000")
	t.Setenv("EXPEDITION_FLEE_CHANCE", "0.4")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := config.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--encounter-chance=0.9", "--drivers=false"}))

	// Act
	cfg, err := flags.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, 0.4, cfg.Gameplay.FleeChance)
	assert.Equal(t, 0.9, cfg.Gameplay.EncounterChance)
	assert.False(t, cfg.Drivers.Enabled)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := config.Defaults()
	cfg.GRPCPort = 0
	cfg.Gameplay.EncounterChance = 2
	cfg.LogLevel = "loud"

	err := cfg.Validate()

	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "GRPCPort")
	assert.Contains(t, err.Error(), "EncounterChance")
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestLoad_RedisCluster(t *testing.T) {
	t.Setenv("EXPEDITION_REDIS_CLUSTER_ADDRS", "redis-0:6379,redis-1:6379")
	t.Setenv("EXPEDITION_REDIS_POOL_SIZE", "40")
	t.Setenv("EXPEDITION_REDIS_TLS", "true")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"redis-0:6379", "redis-1:6379"}, cfg.Redis.ClusterAddrs)
	opts := cfg.RedisOptions()
	assert.Equal(t, 40, opts.PoolSize)
	assert.Equal(t, 2, opts.MinIdleConns)
	assert.True(t, opts.UseTLS)
}

func TestValidate_ClusterReplacesAddr(t *testing.T) {
	cfg := config.Defaults()
	cfg.RedisAddr = ""
	cfg.Redis.ClusterAddrs = []string{"redis-0:6379"}

	assert.NoError(t, cfg.Validate())

	cfg.Redis.ClusterAddrs = nil
	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, errors.GetMessage(err), "RedisAddr")
}
