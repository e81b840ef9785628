package expedition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/engine/autoreturn"
	"github.com/KirkDiggler/expedition-api/internal/engine/collection"
	"github.com/KirkDiggler/expedition-api/internal/engine/progress"
	"github.com/KirkDiggler/expedition-api/internal/engine/rewards"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// progressEpsilon absorbs float noise when comparing stored and recomputed progress
const progressEpsilon = 1e-6

func (o *Orchestrator) UpdateProgress(ctx context.Context, input *UpdateProgressInput) (*UpdateProgressOutput, error) {
	if input == nil || input.ExpeditionID == "" {
		return nil, errors.InvalidArgument("expedition ID is required")
	}

	exp, unlock, err := o.lockExpedition(ctx, input.ExpeditionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !exp.IsActive() {
		return &UpdateProgressOutput{Expedition: exp}, nil
	}

	exp, changed, err := o.advance(ctx, exp)
	if err != nil {
		return nil, err
	}
	return &UpdateProgressOutput{Expedition: exp, Changed: changed}, nil
}

func (o *Orchestrator) Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error) {
	if input == nil || input.ExpeditionID == "" {
		return nil, errors.InvalidArgument("expedition ID is required")
	}

	exp, unlock, err := o.lockExpedition(ctx, input.ExpeditionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	switch exp.Status {
	case entities.ExpeditionStatusCompleted:
		return &CompleteOutput{Expedition: exp}, nil
	case entities.ExpeditionStatusActive:
	default:
		return nil, errors.FailedPreconditionf("expedition %s is %s", exp.ID, exp.Status)
	}

	exp, _, err = o.advance(ctx, exp)
	if err != nil {
		return nil, err
	}
	if exp.IsActive() {
		return nil, errors.FailedPreconditionf("expedition %s is at %.1f%% and cannot complete yet",
			exp.ID, exp.Progress).WithMeta("progress", exp.Progress)
	}
	return &CompleteOutput{Expedition: exp}, nil
}

// advance brings an active expedition up to now. It must run under the
// owner's player lock. Integrity anomalies cancel the expedition and are
// returned as DATA_INTEGRITY errors.
func (o *Orchestrator) advance(ctx context.Context, exp *entities.Expedition) (*entities.Expedition, bool, error) {
	now := o.clock.Now()

	if problem := o.integrityProblem(exp, now); problem != "" {
		return nil, false, o.cancelCorrupt(ctx, exp, problem)
	}

	before := exp.Clone()
	snap := progress.At(exp.StartTime, exp.Duration, now)
	exp.Progress = snap.Progress
	exp.Phase = snap.Phase

	if exp.HasMilestone(entities.MilestoneComplete) {
		// an earlier grant failed or its final write was lost
		slog.WarnContext(ctx, "resuming interrupted expedition completion",
			"expedition_id", exp.ID,
			"player_id", exp.PlayerID)
		return o.finish(ctx, exp, now)
	}

	if snap.Progress >= progress.TravelingAt && !exp.HasMilestone(entities.MilestoneExplore) {
		exp.MarkMilestone(entities.MilestoneExplore)
		exp.SearchCursor = progress.Offset(exp.Duration, progress.TravelingAt)
	}

	reason := entities.ReturnReasonNone
	if exp.HasMilestone(entities.MilestoneExplore) && !exp.HasMilestone(entities.MilestoneReturn) {
		var err error
		reason, err = o.collect(ctx, exp, snap.Elapsed)
		if errors.GetReason(err) == errors.ReasonDataIntegrity {
			return nil, false, o.cancelCorrupt(ctx, exp, errors.GetMessage(err))
		}
		if err != nil {
			return nil, false, err
		}
	}

	if reason != entities.ReturnReasonNone {
		exp.ReturnReason = reason
		exp.MarkMilestone(entities.MilestoneReturn)
		slog.InfoContext(ctx, "expedition returning early",
			"expedition_id", exp.ID,
			"player_id", exp.PlayerID,
			"reason", reason,
			"progress", exp.Progress)
	}
	if snap.Progress >= progress.ReturningAt && !exp.HasMilestone(entities.MilestoneReturn) {
		exp.MarkMilestone(entities.MilestoneReturn)
		slog.DebugContext(ctx, "expedition haul finalized",
			"expedition_id", exp.ID,
			"collected", exp.CollectedResources)
	}

	if snap.Progress >= progress.CompletedAt || reason != entities.ReturnReasonNone {
		return o.finish(ctx, exp, now)
	}

	if sameState(before, exp) {
		return exp, false, nil
	}

	exp.UpdatedAt = now
	if _, err := o.expeditions.Update(ctx, expeditions.UpdateInput{Expedition: exp}); err != nil {
		return nil, false, errors.Wrapf(err, "failed to save progress of %s", exp.ID)
	}
	return exp, true, nil
}

// integrityProblem describes why a stored record cannot be advanced, or "" when
// it is sound
func (o *Orchestrator) integrityProblem(exp *entities.Expedition, now time.Time) string {
	switch {
	case exp.Duration <= 0:
		return fmt.Sprintf("non-positive duration %s", exp.Duration)
	case exp.StartTime.After(now.Add(o.rules.FutureTolerance)):
		return fmt.Sprintf("start time %s is %s in the future",
			exp.StartTime.UTC().Format(time.RFC3339), exp.StartTime.Sub(now).Round(time.Second))
	}
	// stored progress may have been written by a server whose clock ran ahead
	// by up to the same tolerance the start time gets
	if recomputed := progress.Percent(exp.StartTime, exp.Duration, now.Add(o.rules.FutureTolerance)); exp.Progress > recomputed+progressEpsilon {
		return fmt.Sprintf("stored progress %.2f exceeds recomputed %.2f", exp.Progress, recomputed)
	}
	if _, ok := o.catalog.Template(exp.TemplateID); !ok {
		return fmt.Sprintf("template %s no longer exists", exp.TemplateID)
	}
	return ""
}

func (o *Orchestrator) cancelCorrupt(ctx context.Context, exp *entities.Expedition, problem string) error {
	slog.ErrorContext(ctx, "expedition failed integrity check, cancelling",
		"expedition_id", exp.ID,
		"player_id", exp.PlayerID,
		"problem", problem)

	if _, err := o.cancel(ctx, exp, entities.CancelReasonDataIntegrity); err != nil {
		return err
	}
	return errors.DataIntegrity(fmt.Sprintf("expedition %s cancelled: %s", exp.ID, problem)).
		WithMeta("expedition_id", exp.ID)
}

// collect runs collection steps in simulated time from the search cursor up to
// now, never past the 80% mark. Auto-return is evaluated before every step.
func (o *Orchestrator) collect(
	ctx context.Context,
	exp *entities.Expedition,
	elapsed time.Duration,
) (entities.ReturnReason, error) {
	limit := progress.Offset(exp.Duration, progress.ReturningAt)
	if elapsed < limit {
		limit = elapsed
	}
	if exp.SearchCursor >= limit {
		return entities.ReturnReasonNone, nil
	}

	tmpl, _ := o.catalog.Template(exp.TemplateID)
	w, err := o.loadWorld(ctx)
	if err != nil {
		return "", err
	}
	biome, ok := w.biomes[exp.BiomeID]
	if !ok {
		return "", errors.DataIntegrity(fmt.Sprintf("biome %s no longer exists", exp.BiomeID))
	}

	playerOut, err := o.players.GetPlayer(ctx, players.GetPlayerInput{PlayerID: exp.PlayerID})
	if err != nil {
		return "", errors.Wrapf(err, "failed to load player %s", exp.PlayerID)
	}
	player := playerOut.Player
	inventory, err := o.players.GetPlayerInventory(ctx, players.GetItemsInput{PlayerID: player.ID})
	if err != nil {
		return "", errors.Wrapf(err, "failed to load inventory of %s", player.ID)
	}

	candidates := w.candidates(biome, exp.SelectedResources)
	carried := w.carriedWeight(inventory.Items)
	capacity := player.EffectiveCapacity()
	hunger, thirst := player.Hunger, player.Thirst

	minStep := o.rules.Collection.MinStep
	if minStep <= 0 {
		minStep = time.Second
	}

	reason := entities.ReturnReasonNone
	attempts, found := 0, 0
	for exp.SearchCursor < limit {
		reason = autoreturn.Evaluate(o.rules.AutoReturn, autoreturn.State{
			CarriedWeight: carried + exp.CollectedWeight,
			Capacity:      capacity,
			Hunger:        hunger,
			Thirst:        thirst,
		})
		if reason != entities.ReturnReasonNone {
			break
		}

		res := collection.Attempt(o.random, o.rules.Collection, collection.Input{
			Candidates:     candidates,
			MaxDistance:    progress.MaxDistance(tmpl.MaxDistance, progress.ProgressAt(exp.Duration, exp.SearchCursor)),
			GatheringBonus: player.Modifiers.GatheringBonus,
			CarriedWeight:  carried + exp.CollectedWeight,
			Capacity:       capacity,
		})
		if res.ForcedReturn {
			reason = entities.ReturnReasonInventoryFull
			break
		}
		if res.Attempted {
			attempts++
		}
		if res.Success {
			found++
			exp.AddCollected(res.ResourceID, res.Quantity, res.Weight/float64(res.Quantity))
			hunger -= res.HungerCost
			thirst -= res.ThirstCost
		}

		step := res.TimeSpent
		if step < minStep {
			step = minStep
		}
		exp.SearchCursor += step
	}

	if hunger != player.Hunger || thirst != player.Thirst {
		if _, err := o.players.UpdatePlayer(ctx, players.UpdatePlayerInput{
			PlayerID: player.ID,
			Patch: entities.PlayerPatch{
				Hunger: entities.Int(hunger),
				Thirst: entities.Int(thirst),
			},
		}); err != nil {
			return "", errors.Wrapf(err, "failed to charge collection costs to %s", player.ID)
		}
	}

	if attempts > 0 {
		slog.DebugContext(ctx, "collection steps ran",
			"expedition_id", exp.ID,
			"attempts", attempts,
			"found", found,
			"cursor", exp.SearchCursor.String())
	}
	return reason, nil
}

// finish grants the completion rewards. The rolled bundle is stored with the
// completion milestone before the grant, and a retry grants that same bundle
// under the expedition ID, which the player store applies only once.
func (o *Orchestrator) finish(
	ctx context.Context,
	exp *entities.Expedition,
	now time.Time,
) (*entities.Expedition, bool, error) {
	if exp.PendingRewards == nil || !exp.HasMilestone(entities.MilestoneComplete) {
		if exp.PendingRewards == nil {
			tmpl, _ := o.catalog.Template(exp.TemplateID)
			bundle := rewards.CompletionBundle(o.random, tmpl, exp.CollectedResources)
			exp.PendingRewards = &bundle
		}
		exp.MarkMilestone(entities.MilestoneReturn | entities.MilestoneComplete)
		exp.UpdatedAt = now
		if _, err := o.expeditions.Update(ctx, expeditions.UpdateInput{Expedition: exp}); err != nil {
			return nil, false, errors.Wrapf(err, "failed to mark completion of %s", exp.ID)
		}
	}

	granted, err := o.rewards.Grant(ctx, &rewards.GrantInput{
		PlayerID: exp.PlayerID,
		Bundle:   *exp.PendingRewards,
		SourceID: exp.ID,
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to grant rewards of %s", exp.ID)
	}

	grant := granted.Grant
	exp.Rewards = &grant
	exp.PendingRewards = nil
	exp, _, err = o.markCompleted(ctx, exp, now)
	if err != nil {
		return nil, false, err
	}

	if err := o.rewards.AnnounceCompletion(ctx, &rewards.AnnounceCompletionInput{
		Expedition: exp,
		Player:     granted.Player,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to announce expedition completion",
			"expedition_id", exp.ID,
			"error", err)
	}

	slog.InfoContext(ctx, "expedition completed",
		"expedition_id", exp.ID,
		"player_id", exp.PlayerID,
		"return_reason", exp.ReturnReason,
		"experience", grant.Experience,
		"placements", len(grant.Placements))
	return exp, true, nil
}

func (o *Orchestrator) markCompleted(
	ctx context.Context,
	exp *entities.Expedition,
	now time.Time,
) (*entities.Expedition, bool, error) {
	exp.Status = entities.ExpeditionStatusCompleted
	exp.Phase = entities.PhaseCompleted
	exp.EndedAt = &now
	exp.UpdatedAt = now
	if _, err := o.expeditions.Update(ctx, expeditions.UpdateInput{Expedition: exp}); err != nil {
		return nil, false, errors.Wrapf(err, "failed to complete expedition %s", exp.ID)
	}
	return exp, true, nil
}

// sameState reports whether advancing changed anything worth persisting
func sameState(a, b *entities.Expedition) bool {
	if a.Progress != b.Progress || a.Phase != b.Phase || a.Milestones != b.Milestones ||
		a.SearchCursor != b.SearchCursor || a.ReturnReason != b.ReturnReason ||
		len(a.CollectedResources) != len(b.CollectedResources) {
		return false
	}
	for id, qty := range a.CollectedResources {
		if b.CollectedResources[id] != qty {
			return false
		}
	}
	return true
}
