package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/expedition-api/internal/config"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

var (
	seedFlags      *config.Flags
	seedPlayerID   string
	seedPlayerName string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load catalog world data into Redis and optionally create a player",
	RunE:  runSeed,
}

func init() {
	seedFlags = config.BindFlags(seedCmd.Flags())
	seedCmd.Flags().StringVar(&seedPlayerID, "player", "", "create or reset a player with this ID")
	seedCmd.Flags().StringVar(&seedPlayerName, "name", "Wanderer", "name of the seeded player")
}

func runSeed(_ *cobra.Command, _ []string) error {
	cfg, err := seedFlags.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	setupLogging(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	store, err := players.NewRedis(&players.RedisConfig{Client: client})
	if err != nil {
		return err
	}

	if _, err := store.SeedWorld(ctx, players.SeedWorldInput{
		Resources: cat.Resources(),
		Biomes:    cat.Biomes(),
	}); err != nil {
		return fmt.Errorf("failed to seed world: %w", err)
	}
	fmt.Printf("Seeded %d biomes and %d resources\n", len(cat.Biomes()), len(cat.Resources()))

	if seedPlayerID == "" {
		return nil
	}

	player := &entities.Player{
		ID:            seedPlayerID,
		Name:          seedPlayerName,
		Level:         1,
		Health:        100,
		MaxHealth:     100,
		Hunger:        entities.MaxSurvivalStat,
		Thirst:        entities.MaxSurvivalStat,
		Attack:        10,
		Defense:       5,
		CarryCapacity: 50,
	}
	if _, err := store.SavePlayer(ctx, players.SavePlayerInput{Player: player}); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	fmt.Printf("Saved player %s (%s)\n", player.ID, player.Name)
	return nil
}
