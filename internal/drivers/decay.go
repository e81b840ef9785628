package drivers

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/keylock"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// DecayTaskName names the survival decay driver
const DecayTaskName = "survival_decay"

// DecayRates are the per-sweep stat changes
type DecayRates struct {
	Hunger int
	Thirst int
	// FatigueRecovery is subtracted from fatigue while the player rests at camp
	FatigueRecovery int
}

// DefaultDecayRates returns the standard per-sweep rates
func DefaultDecayRates() DecayRates {
	return DecayRates{Hunger: 1, Thirst: 1, FatigueRecovery: 2}
}

// DecayConfig holds the dependencies of the survival decay driver
type DecayConfig struct {
	Players     players.Repository
	Expeditions expeditions.Repository
	// Locks must be the locker shared with the orchestrators
	Locks *keylock.Locker
	Rates DecayRates
}

// Validate ensures all required dependencies are provided
func (c *DecayConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Players == nil {
		vb.RequiredField("Players")
	}
	if c.Expeditions == nil {
		vb.RequiredField("Expeditions")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}
	if c.Rates.Hunger < 0 || c.Rates.Thirst < 0 || c.Rates.FatigueRecovery < 0 {
		vb.Field("Rates", "must not be negative")
	}
	return vb.Build()
}

// DecayTask drains hunger and thirst of every player and lets fatigue
// recover for players not out on an expedition
type DecayTask struct {
	players     players.Repository
	expeditions expeditions.Repository
	locks       *keylock.Locker
	rates       DecayRates
}

var _ Task = (*DecayTask)(nil)

// NewDecayTask creates the survival decay driver task
func NewDecayTask(cfg *DecayConfig) (*DecayTask, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid decay driver config")
	}
	return &DecayTask{
		players:     cfg.Players,
		expeditions: cfg.Expeditions,
		locks:       cfg.Locks,
		rates:       cfg.Rates,
	}, nil
}

// Name implements Task
func (t *DecayTask) Name() string { return DecayTaskName }

// Sweep implements Task
func (t *DecayTask) Sweep(ctx context.Context) error {
	ids, err := t.players.ListPlayerIDs(ctx, players.ListPlayerIDsInput{})
	if err != nil {
		return errors.Wrap(err, "failed to list players")
	}

	var failed int
	for _, id := range ids.PlayerIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := t.decay(ctx, id); err != nil {
			failed++
			slog.WarnContext(ctx, "survival decay failed",
				"player_id", id,
				"error", err)
		}
	}

	if failed > 0 {
		slog.InfoContext(ctx, "survival decay sweep had failures",
			"players", len(ids.PlayerIDs),
			"failed", failed)
	}
	return nil
}

func (t *DecayTask) decay(ctx context.Context, playerID string) error {
	unlock := t.locks.Lock(keylock.PlayerKey(playerID))
	defer unlock()

	out, err := t.players.GetPlayer(ctx, players.GetPlayerInput{PlayerID: playerID})
	if err != nil {
		return err
	}
	player := out.Player

	var patch entities.PlayerPatch
	if t.rates.Hunger > 0 && player.Hunger > 0 {
		patch.Hunger = entities.Int(player.Hunger - t.rates.Hunger)
	}
	if t.rates.Thirst > 0 && player.Thirst > 0 {
		patch.Thirst = entities.Int(player.Thirst - t.rates.Thirst)
	}
	if t.rates.FatigueRecovery > 0 && player.Fatigue > 0 {
		resting, err := t.resting(ctx, playerID)
		if err != nil {
			return err
		}
		if resting {
			patch.Fatigue = entities.Int(player.Fatigue - t.rates.FatigueRecovery)
		}
	}
	if patch.IsEmpty() {
		return nil
	}

	_, err = t.players.UpdatePlayer(ctx, players.UpdatePlayerInput{PlayerID: playerID, Patch: patch})
	return err
}

func (t *DecayTask) resting(ctx context.Context, playerID string) (bool, error) {
	_, err := t.expeditions.GetActiveByPlayer(ctx, expeditions.GetActiveByPlayerInput{PlayerID: playerID})
	if err == nil {
		return false, nil
	}
	if errors.IsNotFound(err) {
		return true, nil
	}
	return false, err
}
