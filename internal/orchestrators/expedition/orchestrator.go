// Package expedition runs the expedition lifecycle: start, progress, completion
// and cancellation of a player's expeditions.
package expedition

//go:generate mockgen -destination=mock/mock_service.go -package=expeditionmock github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition Service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/catalog"
	"github.com/KirkDiggler/expedition-api/internal/engine/autoreturn"
	"github.com/KirkDiggler/expedition-api/internal/engine/collection"
	"github.com/KirkDiggler/expedition-api/internal/engine/rewards"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/clock"
	"github.com/KirkDiggler/expedition-api/internal/pkg/idgen"
	"github.com/KirkDiggler/expedition-api/internal/pkg/keylock"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
	"github.com/KirkDiggler/expedition-api/internal/repositories/archive"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// DefaultHistoryLimit caps ListHistory when no limit is given
const DefaultHistoryLimit = 20

// Service is the expedition lifecycle manager
type Service interface {
	// Start validates every requirement, charges the upfront costs and creates
	// the player's single active expedition
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// UpdateProgress recomputes progress from the clock and processes any
	// milestone crossed since the last call. Calling it again without elapsed
	// time changes nothing.
	UpdateProgress(ctx context.Context, input *UpdateProgressInput) (*UpdateProgressOutput, error)

	// Complete finishes an expedition that reached 100% and grants its rewards
	Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error)

	// Cancel aborts an active expedition without rewards
	Cancel(ctx context.Context, input *CancelInput) (*CancelOutput, error)

	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	GetActive(ctx context.Context, input *GetActiveInput) (*GetActiveOutput, error)
	ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error)
}

// Rules are the tunable costs and tolerances of the lifecycle
type Rules struct {
	// Upfront survival costs per minute of sampled duration
	HungerPerMinute  float64
	ThirstPerMinute  float64
	FatiguePerMinute float64
	// FutureTolerance is how far a start time may lie ahead of now before the
	// record is treated as corrupt
	FutureTolerance time.Duration
	Collection      collection.Config
	AutoReturn      autoreturn.Thresholds
}

// DefaultRules returns the standard lifecycle tuning
func DefaultRules() Rules {
	return Rules{
		HungerPerMinute:  0.5,
		ThirstPerMinute:  0.5,
		FatiguePerMinute: 0.25,
		FutureTolerance:  time.Minute,
		Collection:       collection.DefaultConfig(),
		AutoReturn:       autoreturn.DefaultThresholds(),
	}
}

// Config holds the dependencies of the orchestrator
type Config struct {
	Expeditions expeditions.Repository
	Players     players.Repository
	// Archive is consulted by Get and ListHistory once records were evicted; optional
	Archive     archive.Repository
	Catalog     *catalog.Catalog
	Rewards     rewards.Resolver
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Random      random.Source
	Locks       *keylock.Locker
	Rules       *Rules
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Expeditions == nil {
		vb.RequiredField("Expeditions")
	}
	if c.Players == nil {
		vb.RequiredField("Players")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Rewards == nil {
		vb.RequiredField("Rewards")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// Orchestrator implements Service
type Orchestrator struct {
	expeditions expeditions.Repository
	players     players.Repository
	archive     archive.Repository
	catalog     *catalog.Catalog
	rewards     rewards.Resolver
	clock       clock.Clock
	idGen       idgen.Generator
	random      random.Source
	locks       *keylock.Locker
	rules       Rules
}

var _ Service = (*Orchestrator)(nil)

// New creates an expedition orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		expeditions: cfg.Expeditions,
		players:     cfg.Players,
		archive:     cfg.Archive,
		catalog:     cfg.Catalog,
		rewards:     cfg.Rewards,
		clock:       cfg.Clock,
		idGen:       cfg.IDGenerator,
		random:      cfg.Random,
		locks:       cfg.Locks,
		rules:       DefaultRules(),
	}
	if cfg.Rules != nil {
		o.rules = *cfg.Rules
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.random == nil {
		o.random = random.NewDefault()
	}
	if o.locks == nil {
		o.locks = keylock.New()
	}
	return o, nil
}

func (o *Orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("template_id", input.TemplateID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.locks.Lock(keylock.PlayerKey(input.PlayerID))
	defer unlock()

	resolution, err := o.catalog.Resolve(input.TemplateID)
	if err != nil {
		return nil, err
	}
	tmpl := resolution.Template

	playerOut, err := o.players.GetPlayer(ctx, players.GetPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load player %s", input.PlayerID)
	}
	player := playerOut.Player

	active, err := o.expeditions.GetActiveByPlayer(ctx, expeditions.GetActiveByPlayerInput{PlayerID: player.ID})
	switch {
	case err == nil:
		return nil, errors.ConflictActiveExpedition(player.ID, active.Expedition.ID)
	case !errors.IsNotFound(err):
		return nil, errors.Wrapf(err, "failed to check active expedition")
	}

	w, err := o.loadWorld(ctx)
	if err != nil {
		return nil, err
	}
	biome, ok := w.biomes[tmpl.BiomeID]
	if !ok {
		return nil, errors.NotFoundf("biome %s of template %s not found", tmpl.BiomeID, tmpl.ID)
	}

	inventory, err := o.players.GetPlayerInventory(ctx, players.GetItemsInput{PlayerID: player.ID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load inventory of %s", player.ID)
	}

	violations := checkRequirements(tmpl, biome, player, w.toolCategories(inventory.Items))
	selected, unknown := selectResources(biome, input.SelectedResources)
	for _, id := range unknown {
		violations = append(violations, fmt.Sprintf("resource %s is not collectable in %s", id, biome.ID))
	}
	if len(violations) > 0 {
		slog.InfoContext(ctx, "expedition requirements not met",
			"player_id", player.ID,
			"template_id", tmpl.ID,
			"violations", violations)
		return nil, errors.RequirementNotMet(violations).WithMeta("template_id", tmpl.ID)
	}

	now := o.clock.Now()
	duration := o.sampleDuration(tmpl, player)
	exp := &entities.Expedition{
		ID:                 o.idGen.Generate(),
		PlayerID:           player.ID,
		TemplateID:         tmpl.ID,
		TemplateSource:     resolution.Source,
		BiomeID:            biome.ID,
		StartTime:          now,
		Duration:           duration,
		Status:             entities.ExpeditionStatusActive,
		Phase:              entities.PhasePreparing,
		SelectedResources:  selected,
		CollectedResources: map[string]int{},
		UpdatedAt:          now,
	}

	if _, err := o.expeditions.Create(ctx, expeditions.CreateInput{Expedition: exp}); err != nil {
		return nil, err
	}

	updated, err := o.players.UpdatePlayer(ctx, players.UpdatePlayerInput{
		PlayerID: player.ID,
		Patch:    o.upfrontCosts(player, duration),
	})
	if err != nil {
		o.rollbackStart(ctx, exp)
		return nil, errors.Wrapf(err, "failed to charge upfront costs to %s", player.ID)
	}

	slog.InfoContext(ctx, "expedition started",
		"expedition_id", exp.ID,
		"player_id", player.ID,
		"template_id", tmpl.ID,
		"template_source", resolution.Source,
		"biome_id", biome.ID,
		"duration", duration.String())

	return &StartOutput{Expedition: exp, Player: updated.Player}, nil
}

func checkRequirements(
	tmpl *entities.ExpeditionTemplate,
	biome *entities.Biome,
	player *entities.Player,
	tools map[string]struct{},
) []string {
	var violations []string
	req := tmpl.Requirements

	minLevel := req.MinLevel
	if biome.LevelRequirement > minLevel {
		minLevel = biome.LevelRequirement
	}
	if player.Level < minLevel {
		violations = append(violations, fmt.Sprintf("level %d is below required %d", player.Level, minLevel))
	}
	if player.Hunger < req.MinHunger {
		violations = append(violations, fmt.Sprintf("hunger %d is below required %d", player.Hunger, req.MinHunger))
	}
	if player.Thirst < req.MinThirst {
		violations = append(violations, fmt.Sprintf("thirst %d is below required %d", player.Thirst, req.MinThirst))
	}
	if player.Health < req.MinHealth {
		violations = append(violations, fmt.Sprintf("health %d is below required %d", player.Health, req.MinHealth))
	}
	for _, category := range req.ToolCategories {
		if _, ok := tools[entities.NormalizeTag(category)]; !ok {
			violations = append(violations, fmt.Sprintf("missing tool of category %s", category))
		}
	}
	return violations
}

// selectResources keeps the requested biome resources in biome order. An empty
// request selects everything the biome offers.
func selectResources(biome *entities.Biome, requested []string) (selected, unknown []string) {
	offered := make(map[string]bool, len(biome.Resources))
	for _, r := range biome.Resources {
		offered[r.ResourceID] = false
	}
	if len(requested) == 0 {
		for _, r := range biome.Resources {
			selected = append(selected, r.ResourceID)
		}
		return selected, nil
	}

	for _, id := range requested {
		if _, ok := offered[id]; !ok {
			unknown = append(unknown, id)
			continue
		}
		offered[id] = true
	}
	for _, r := range biome.Resources {
		if offered[r.ResourceID] {
			selected = append(selected, r.ResourceID)
		}
	}
	return selected, unknown
}

// sampleDuration draws uniformly from the template range and applies the
// player's duration multiplier, rounded to the second
func (o *Orchestrator) sampleDuration(tmpl *entities.ExpeditionTemplate, player *entities.Player) time.Duration {
	minutes := random.Between(o.random, float64(tmpl.MinDurationMinutes), float64(tmpl.MaxDurationMinutes))
	if tmpl.MaxDurationMinutes <= tmpl.MinDurationMinutes {
		minutes = float64(tmpl.MinDurationMinutes)
	}
	d := time.Duration(minutes * player.DurationScale() * float64(time.Minute))
	d = d.Round(time.Second)
	if d < time.Second {
		d = time.Second
	}
	return d
}

func (o *Orchestrator) upfrontCosts(player *entities.Player, duration time.Duration) entities.PlayerPatch {
	minutes := duration.Minutes()
	cost := func(rate float64) int {
		return int(math.Ceil(rate * minutes))
	}
	return entities.PlayerPatch{
		Hunger:  entities.Int(player.Hunger - cost(o.rules.HungerPerMinute)),
		Thirst:  entities.Int(player.Thirst - cost(o.rules.ThirstPerMinute)),
		Fatigue: entities.Int(player.Fatigue + cost(o.rules.FatiguePerMinute)),
	}
}

// rollbackStart releases the active slot of an expedition whose costs could not
// be charged
func (o *Orchestrator) rollbackStart(ctx context.Context, exp *entities.Expedition) {
	now := o.clock.Now()
	exp.Status = entities.ExpeditionStatusCancelled
	exp.CancelReason = entities.CancelReasonStartFailed
	exp.EndedAt = &now
	exp.UpdatedAt = now
	if _, err := o.expeditions.Update(ctx, expeditions.UpdateInput{Expedition: exp}); err != nil {
		slog.ErrorContext(ctx, "failed to roll back expedition start",
			"expedition_id", exp.ID,
			"player_id", exp.PlayerID,
			"error", err)
	}
}

func (o *Orchestrator) Cancel(ctx context.Context, input *CancelInput) (*CancelOutput, error) {
	if input == nil || input.ExpeditionID == "" {
		return nil, errors.InvalidArgument("expedition ID is required")
	}
	reason := input.Reason
	if reason == "" {
		reason = entities.CancelReasonPlayer
	}

	exp, unlock, err := o.lockExpedition(ctx, input.ExpeditionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !exp.IsActive() {
		if exp.Status == entities.ExpeditionStatusCancelled {
			return &CancelOutput{Expedition: exp}, nil
		}
		return nil, errors.FailedPreconditionf("expedition %s is already %s", exp.ID, exp.Status)
	}
	if exp.HasMilestone(entities.MilestoneComplete) {
		return nil, errors.FailedPreconditionf("expedition %s is completing, update its progress instead", exp.ID)
	}

	exp, err = o.cancel(ctx, exp, reason)
	if err != nil {
		return nil, err
	}
	return &CancelOutput{Expedition: exp}, nil
}

func (o *Orchestrator) cancel(
	ctx context.Context,
	exp *entities.Expedition,
	reason entities.CancelReason,
) (*entities.Expedition, error) {
	now := o.clock.Now()
	exp.Status = entities.ExpeditionStatusCancelled
	exp.CancelReason = reason
	exp.EndedAt = &now
	exp.UpdatedAt = now

	if _, err := o.expeditions.Update(ctx, expeditions.UpdateInput{Expedition: exp}); err != nil {
		return nil, errors.Wrapf(err, "failed to cancel expedition %s", exp.ID)
	}

	slog.InfoContext(ctx, "expedition cancelled",
		"expedition_id", exp.ID,
		"player_id", exp.PlayerID,
		"reason", reason)
	return exp, nil
}

// lockExpedition takes the owner's player lock and returns the record as read
// under that lock
func (o *Orchestrator) lockExpedition(ctx context.Context, id string) (*entities.Expedition, func(), error) {
	out, err := o.expeditions.Get(ctx, expeditions.GetInput{ID: id})
	if err != nil {
		return nil, nil, err
	}

	unlock := o.locks.Lock(keylock.PlayerKey(out.Expedition.PlayerID))
	fresh, err := o.expeditions.Get(ctx, expeditions.GetInput{ID: id})
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return fresh.Expedition, unlock, nil
}

func (o *Orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ExpeditionID == "" {
		return nil, errors.InvalidArgument("expedition ID is required")
	}

	out, err := o.expeditions.Get(ctx, expeditions.GetInput{ID: input.ExpeditionID})
	if err == nil {
		return &GetOutput{Expedition: out.Expedition}, nil
	}
	if !errors.IsNotFound(err) || o.archive == nil {
		return nil, err
	}

	archived, err := o.archive.GetExpedition(ctx, archive.GetExpeditionInput{ID: input.ExpeditionID})
	if err != nil {
		return nil, err
	}
	return &GetOutput{Expedition: archived.Expedition, Archived: true}, nil
}

func (o *Orchestrator) GetActive(ctx context.Context, input *GetActiveInput) (*GetActiveOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.expeditions.GetActiveByPlayer(ctx, expeditions.GetActiveByPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, err
	}
	return &GetActiveOutput{Expedition: out.Expedition}, nil
}

func (o *Orchestrator) ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	live, err := o.expeditions.ListByPlayer(ctx, expeditions.ListByPlayerInput{PlayerID: input.PlayerID, Limit: limit})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Expedition, len(live.Expeditions))
	for _, exp := range live.Expeditions {
		byID[exp.ID] = exp
	}

	if o.archive != nil {
		archived, err := o.archive.ListExpeditionsByPlayer(ctx, archive.ListExpeditionsByPlayerInput{
			PlayerID: input.PlayerID,
			Limit:    limit,
		})
		if err != nil {
			return nil, err
		}
		for _, exp := range archived.Expeditions {
			// the live record wins while both exist
			if _, ok := byID[exp.ID]; !ok {
				byID[exp.ID] = exp
			}
		}
	}

	out := make([]*entities.Expedition, 0, len(byID))
	for _, exp := range byID {
		out = append(out, exp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return &ListHistoryOutput{Expeditions: out}, nil
}
