package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/expedition-api/internal/catalog"
	"github.com/KirkDiggler/expedition-api/internal/config"
	"github.com/KirkDiggler/expedition-api/internal/drivers"
	"github.com/KirkDiggler/expedition-api/internal/engine/combat"
	"github.com/KirkDiggler/expedition-api/internal/engine/rewards"
	"github.com/KirkDiggler/expedition-api/internal/handlers/expedition/v1alpha1"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/encounter"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
	"github.com/KirkDiggler/expedition-api/internal/pkg/clock"
	"github.com/KirkDiggler/expedition-api/internal/pkg/idgen"
	"github.com/KirkDiggler/expedition-api/internal/pkg/keylock"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
	redisclient "github.com/KirkDiggler/expedition-api/internal/redis"
	"github.com/KirkDiggler/expedition-api/internal/repositories/archive"
	"github.com/KirkDiggler/expedition-api/internal/repositories/encounters"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// app holds every long-lived dependency of the server
type app struct {
	redis   redisclient.Client
	archive *archive.Store
	players players.Repository
	handler *v1alpha1.Handler
	drivers *drivers.Group
}

func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.LoadDefault()
	}
	return catalog.Load(os.DirFS(dir))
}

func connectRedis(ctx context.Context, cfg *config.Config) (redisclient.Client, error) {
	var (
		client redisclient.Client
		err    error
	)
	if len(cfg.Redis.ClusterAddrs) > 0 {
		client, err = redisclient.NewClusterClient(cfg.Redis.ClusterAddrs, cfg.RedisOptions())
	} else {
		client, err = redisclient.NewClient(cfg.RedisAddr, cfg.RedisOptions())
	}
	if err != nil {
		return nil, err
	}
	if err := redisclient.Ping(ctx, client, 5*time.Second); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	a.redis, err = connectRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.archive, err = archive.Open(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	a.players, err = players.NewRedis(&players.RedisConfig{Client: a.redis})
	if err != nil {
		return nil, err
	}
	expeditionRepo, err := expeditions.NewRedis(&expeditions.RedisConfig{Client: a.redis})
	if err != nil {
		return nil, err
	}
	encounterRepo, err := encounters.NewRedis(&encounters.RedisConfig{Client: a.redis})
	if err != nil {
		return nil, err
	}

	// the stores read biome and resource data, so the catalog is the source of truth on every start
	if _, err := a.players.SeedWorld(ctx, players.SeedWorldInput{
		Resources: cat.Resources(),
		Biomes:    cat.Biomes(),
	}); err != nil {
		return nil, fmt.Errorf("failed to seed world data: %w", err)
	}

	bus := events.NewBus()
	subscribe(bus)

	resolver, err := rewards.New(&rewards.Config{Store: a.players, EventBus: bus})
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	src := random.NewDefault()
	locks := keylock.New()

	expeditionService, err := expedition.New(&expedition.Config{
		Expeditions: expeditionRepo,
		Players:     a.players,
		Archive:     a.archive,
		Catalog:     cat,
		Rewards:     resolver,
		Clock:       clk,
		IDGenerator: idgen.NewUUID(idgen.PrefixExpedition),
		Random:      src,
		Locks:       locks,
		Rules:       cfg.ExpeditionRules(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create expedition orchestrator: %w", err)
	}

	encounterService, err := encounter.NewOrchestrator(&encounter.Config{
		Encounters:      encounterRepo,
		Expeditions:     expeditionRepo,
		Players:         a.players,
		Archive:         a.archive,
		Catalog:         cat,
		Rewards:         resolver,
		Engine:          combat.New(cfg.CombatConfig(), src),
		Clock:           clk,
		IDGenerator:     idgen.NewUUID(idgen.PrefixEncounter),
		Random:          src,
		Locks:           locks,
		EncounterChance: cfg.Gameplay.EncounterChance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create encounter orchestrator: %w", err)
	}

	a.handler, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		ExpeditionService: expeditionService,
		EncounterService:  encounterService,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Drivers.Enabled {
		a.drivers, err = newDrivers(cfg, expeditionRepo, encounterRepo, a.players, a.archive, expeditionService, locks, clk)
		if err != nil {
			return nil, err
		}
	}

	ok = true
	return a, nil
}

func newDrivers(
	cfg *config.Config,
	expeditionRepo expeditions.Repository,
	encounterRepo encounters.Repository,
	playerRepo players.Repository,
	store archive.Repository,
	service expedition.Service,
	locks *keylock.Locker,
	clk clock.Clock,
) (*drivers.Group, error) {
	progressTask, err := drivers.NewProgressTask(&drivers.ProgressConfig{
		Expeditions: expeditionRepo,
		Service:     service,
	})
	if err != nil {
		return nil, err
	}
	decayTask, err := drivers.NewDecayTask(&drivers.DecayConfig{
		Players:     playerRepo,
		Expeditions: expeditionRepo,
		Locks:       locks,
		Rates:       cfg.DecayRates(),
	})
	if err != nil {
		return nil, err
	}
	historyTask, err := drivers.NewHistoryTask(&drivers.HistoryConfig{
		Expeditions: expeditionRepo,
		Encounters:  encounterRepo,
		Archive:     store,
		Clock:       clk,
		GracePeriod: cfg.Drivers.GracePeriod,
		BatchSize:   cfg.Drivers.HistoryBatch,
	})
	if err != nil {
		return nil, err
	}

	var loops []*drivers.Loop
	for _, entry := range []struct {
		task     drivers.Task
		interval time.Duration
	}{
		{progressTask, cfg.Drivers.ProgressInterval},
		{decayTask, cfg.Drivers.DecayInterval},
		{historyTask, cfg.Drivers.HistoryInterval},
	} {
		loop, err := drivers.NewLoop(entry.task, entry.interval)
		if err != nil {
			return nil, err
		}
		loops = append(loops, loop)
	}
	return drivers.NewGroup(loops...)
}

// subscribe attaches the in-process consumers of gameplay events
func subscribe(bus events.EventBus) {
	bus.SubscribeFunc(rewards.EventPlayerLevelUp, 0, func(ctx context.Context, e events.Event) error {
		level, _ := e.Context().Get(rewards.KeyLevel)
		slog.InfoContext(ctx, "level up event",
			"player_id", e.Source().GetID(),
			"level", level)
		return nil
	})
	bus.SubscribeFunc(rewards.EventExpeditionCompleted, 0, func(ctx context.Context, e events.Event) error {
		expeditionID, _ := e.Context().Get(rewards.KeyExpeditionID)
		templateID, _ := e.Context().Get(rewards.KeyTemplateID)
		slog.InfoContext(ctx, "expedition completed event",
			"player_id", e.Source().GetID(),
			"expedition_id", expeditionID,
			"template_id", templateID)
		return nil
	})
}

// Close releases the store connections
func (a *app) Close() {
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			slog.Error("failed to close archive", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
}
