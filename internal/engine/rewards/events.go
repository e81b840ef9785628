package rewards

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
)

// Event types published on the bus
const (
	EventPlayerLevelUp       = "player.level_up"
	EventExpeditionCompleted = "expedition.completed"
)

// Event context keys
const (
	KeyPreviousLevel = "previous_level"
	KeyLevel         = "level"
	KeySourceID      = "source_id"
	KeyExpeditionID  = "expedition_id"
	KeyTemplateID    = "template_id"
	KeyBiomeID       = "biome_id"
	KeyReturnReason  = "return_reason"
	KeyCollected     = "collected_resources"
)

// publishLevelUp is best effort: the grant is already persisted, a failing
// subscriber must not undo it
func (r *resolver) publishLevelUp(ctx context.Context, player *entities.Player, previous int, sourceID string) {
	event := events.NewGameEvent(EventPlayerLevelUp, player, nil)
	event.Context().Set(KeyPreviousLevel, previous)
	event.Context().Set(KeyLevel, player.Level)
	event.Context().Set(KeySourceID, sourceID)

	if err := r.bus.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish level up",
			"player_id", player.ID,
			"level", player.Level,
			"error", err)
		return
	}
	slog.InfoContext(ctx, "player leveled up",
		"player_id", player.ID,
		"previous_level", previous,
		"level", player.Level)
}

func (r *resolver) AnnounceCompletion(ctx context.Context, input *AnnounceCompletionInput) error {
	if input == nil || input.Expedition == nil {
		return errors.InvalidArgument("expedition is required")
	}
	exp := input.Expedition
	if exp.Status != entities.ExpeditionStatusCompleted {
		return errors.FailedPreconditionf("expedition %s is %s, not completed", exp.ID, exp.Status)
	}

	source := input.Player
	if source == nil {
		source = &entities.Player{ID: exp.PlayerID}
	}

	collected := make(map[string]int, len(exp.CollectedResources))
	for k, v := range exp.CollectedResources {
		collected[k] = v
	}

	event := events.NewGameEvent(EventExpeditionCompleted, source, nil)
	event.Context().Set(KeyExpeditionID, exp.ID)
	event.Context().Set(KeyTemplateID, exp.TemplateID)
	event.Context().Set(KeyBiomeID, exp.BiomeID)
	event.Context().Set(KeyReturnReason, string(exp.ReturnReason))
	event.Context().Set(KeyCollected, collected)

	if err := r.bus.Publish(ctx, event); err != nil {
		return errors.Wrapf(err, "failed to publish completion of %s", exp.ID)
	}
	return nil
}
