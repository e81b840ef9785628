// Package encounter rolls combat encounters during expeditions and drives the
// combat state machine against persisted encounters
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/KirkDiggler/expedition-api/internal/orchestrators/encounter Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/expedition-api/internal/catalog"
	"github.com/KirkDiggler/expedition-api/internal/engine/combat"
	"github.com/KirkDiggler/expedition-api/internal/engine/rewards"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/clock"
	"github.com/KirkDiggler/expedition-api/internal/pkg/idgen"
	"github.com/KirkDiggler/expedition-api/internal/pkg/keylock"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
	"github.com/KirkDiggler/expedition-api/internal/repositories/archive"
	"github.com/KirkDiggler/expedition-api/internal/repositories/encounters"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// DefaultEncounterChance is the probability that a generation roll starts a fight
const DefaultEncounterChance = 0.3

// Service defines the interface for encounter operations
type Service interface {
	// Generate rolls for an encounter in the biome of the player's active
	// expedition. A miss is not an error: the output carries no encounter.
	Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error)

	// ExecuteAction resolves one player action and the animal's answer
	ExecuteAction(ctx context.Context, input *ExecuteActionInput) (*ExecuteActionOutput, error)

	// Get returns an encounter, falling back to the archive once evicted
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	Encounters  encounters.Repository
	Expeditions expeditions.Repository
	Players     players.Repository
	// Archive is optional
	Archive     archive.Repository
	Catalog     *catalog.Catalog
	Rewards     rewards.Resolver
	Engine      *combat.Engine
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Random      random.Source
	Locks       *keylock.Locker
	// EncounterChance overrides DefaultEncounterChance when positive
	EncounterChance float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Encounters == nil {
		vb.RequiredField("Encounters")
	}
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
	if c.EncounterChance < 0 || c.EncounterChance > 1 {
		vb.Field("EncounterChance", "must be in [0,1]")
	}

	return vb.Build()
}

type orchestrator struct {
	encounters  encounters.Repository
	expeditions expeditions.Repository
	players     players.Repository
	archive     archive.Repository
	catalog     *catalog.Catalog
	rewards     rewards.Resolver
	engine      *combat.Engine
	clock       clock.Clock
	idGen       idgen.Generator
	random      random.Source
	locks       *keylock.Locker
	chance      float64
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		encounters:  cfg.Encounters,
		expeditions: cfg.Expeditions,
		players:     cfg.Players,
		archive:     cfg.Archive,
		catalog:     cfg.Catalog,
		rewards:     cfg.Rewards,
		engine:      cfg.Engine,
		clock:       cfg.Clock,
		idGen:       cfg.IDGenerator,
		random:      cfg.Random,
		locks:       cfg.Locks,
		chance:      cfg.EncounterChance,
	}
	if o.random == nil {
		o.random = random.NewDefault()
	}
	if o.engine == nil {
		o.engine = combat.New(combat.DefaultConfig(), o.random)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.locks == nil {
		o.locks = keylock.New()
	}
	if o.chance == 0 {
		o.chance = DefaultEncounterChance
	}
	return o, nil
}

func (o *orchestrator) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("biome_id", input.BiomeID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.locks.Lock(keylock.PlayerKey(input.PlayerID))
	defer unlock()

	active, err := o.expeditions.GetActiveByPlayer(ctx, expeditions.GetActiveByPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.FailedPreconditionf("player %s has no active expedition", input.PlayerID)
		}
		return nil, err
	}
	exp := active.Expedition
	if exp.BiomeID != input.BiomeID {
		return nil, errors.FailedPreconditionf("active expedition %s is in %s, not %s",
			exp.ID, exp.BiomeID, input.BiomeID)
	}

	if exp.CombatEncounterID != "" {
		current, err := o.encounters.Get(ctx, &encounters.GetInput{EncounterID: exp.CombatEncounterID})
		switch {
		case err == nil && current.Encounter.IsActive():
			return nil, errors.AlreadyExistsf("expedition %s already has active encounter %s",
				exp.ID, current.Encounter.ID).
				WithReason(errors.ReasonConflictActiveEncounter).
				WithMeta("encounter_id", current.Encounter.ID)
		case err != nil && !errors.IsNotFound(err):
			return nil, err
		}
	}

	biome, err := o.biome(ctx, input.BiomeID)
	if err != nil {
		return nil, err
	}

	animal := combat.Roll(o.random, o.chance, biome, o.catalog.Animals())
	if animal == nil {
		slog.DebugContext(ctx, "no encounter rolled",
			"player_id", input.PlayerID,
			"biome_id", biome.ID)
		return &GenerateOutput{}, nil
	}

	playerOut, err := o.players.GetPlayer(ctx, players.GetPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load player %s", input.PlayerID)
	}

	enc := &entities.Encounter{
		ID:           o.idGen.Generate(),
		PlayerID:     input.PlayerID,
		ExpeditionID: exp.ID,
		AnimalID:     animal.ID,
		Status:       entities.EncounterStatusActive,
		PlayerHealth: playerOut.Player.Health,
		AnimalHealth: animal.Health,
		CreatedAt:    o.clock.Now(),
	}
	if _, err := o.encounters.Save(ctx, &encounters.SaveInput{Encounter: enc}); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	exp.CombatEncounterID = enc.ID
	exp.UpdatedAt = enc.CreatedAt
	if _, err := o.expeditions.Update(ctx, expeditions.UpdateInput{Expedition: exp}); err != nil {
		return nil, errors.Wrapf(err, "failed to link encounter to expedition %s", exp.ID)
	}

	slog.InfoContext(ctx, "encounter started",
		"encounter_id", enc.ID,
		"expedition_id", exp.ID,
		"player_id", enc.PlayerID,
		"animal_id", animal.ID)

	return &GenerateOutput{Encounter: enc, Animal: animal}, nil
}

func (o *orchestrator) biome(ctx context.Context, id string) (*entities.Biome, error) {
	out, err := o.players.GetAllBiomes(ctx, players.GetAllBiomesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load biomes")
	}
	for _, b := range out.Biomes {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errors.NotFoundf("biome %s not found", id)
}

func (o *orchestrator) ExecuteAction(ctx context.Context, input *ExecuteActionInput) (*ExecuteActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("encounter_id", input.EncounterID, vb)
	errors.ValidateEnum("action", input.Action, entities.CombatActions, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	// encounter first, then player: Generate only ever holds the player lock
	unlockEncounter := o.locks.Lock(keylock.EncounterKey(input.EncounterID))
	defer unlockEncounter()

	got, err := o.encounters.Get(ctx, &encounters.GetInput{EncounterID: input.EncounterID})
	if err != nil {
		return nil, err
	}
	enc := got.Encounter

	unlockPlayer := o.locks.Lock(keylock.PlayerKey(enc.PlayerID))
	defer unlockPlayer()

	animal, ok := o.catalog.Animal(enc.AnimalID)
	if !ok {
		return nil, errors.NotFoundf("animal %s not found", enc.AnimalID)
	}
	playerOut, err := o.players.GetPlayer(ctx, players.GetPlayerInput{PlayerID: enc.PlayerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load player %s", enc.PlayerID)
	}
	player := playerOut.Player

	outcome, err := o.engine.Resolve(enc, entities.CombatAction(input.Action), combat.Combatants{
		Player: player,
		Animal: animal,
	}, o.clock.Now())
	if err != nil {
		return nil, err
	}

	if _, err := o.encounters.Save(ctx, &encounters.SaveInput{Encounter: enc}); err != nil {
		return nil, errors.Wrapf(err, "failed to save encounter %s", enc.ID)
	}

	out := &ExecuteActionOutput{
		Encounter:    enc,
		PlayerAction: &outcome.PlayerRecord,
		AnimalAction: outcome.AnimalRecord,
		Player:       player,
	}

	player, discovered, err := o.applyToPlayer(ctx, enc, player, animal, outcome)
	if err != nil {
		return nil, err
	}
	out.Player = player
	out.Discovered = discovered

	if len(outcome.Rewards.Resources) > 0 || outcome.Rewards.Experience > 0 {
		granted, err := o.rewards.Grant(ctx, &rewards.GrantInput{
			PlayerID: enc.PlayerID,
			Bundle:   outcome.Rewards,
			SourceID: enc.ID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to grant encounter rewards",
				"encounter_id", enc.ID,
				"player_id", enc.PlayerID,
				"error", err)
			return nil, errors.Wrapf(err, "failed to grant rewards of encounter %s", enc.ID)
		}
		grant := granted.Grant
		enc.Rewards = &grant
		out.Rewards = &grant
		out.Player = granted.Player

		if _, err := o.encounters.Save(ctx, &encounters.SaveInput{Encounter: enc}); err != nil {
			return nil, errors.Wrapf(err, "failed to record rewards of encounter %s", enc.ID)
		}
	}

	if !enc.IsActive() {
		slog.InfoContext(ctx, "encounter ended",
			"encounter_id", enc.ID,
			"player_id", enc.PlayerID,
			"animal_id", enc.AnimalID,
			"status", enc.Status,
			"turns", enc.Turn)
	}
	return out, nil
}

// applyToPlayer writes the exchange back to the player record: health after
// the animal's turn, the defeat penalty and any discovery
func (o *orchestrator) applyToPlayer(
	ctx context.Context,
	enc *entities.Encounter,
	player *entities.Player,
	animal *entities.Animal,
	outcome *combat.Outcome,
) (*entities.Player, bool, error) {
	var patch entities.PlayerPatch
	if outcome.AnimalRecord != nil {
		patch.Health = entities.Int(enc.PlayerHealth)
	}
	if outcome.DefeatPenalty {
		cfg := o.engine.Config()
		patch.Hunger = entities.Int(player.Hunger - cfg.DefeatHungerPenalty)
		patch.Thirst = entities.Int(player.Thirst - cfg.DefeatThirstPenalty)
	}
	discovered := outcome.Discovered && !player.HasDiscovered(animal.ID)
	if discovered {
		patch.DiscoveredAnimals = append(append([]string(nil), player.DiscoveredAnimals...), animal.ID)
	}
	if patch.IsEmpty() {
		return player, false, nil
	}

	updated, err := o.players.UpdatePlayer(ctx, players.UpdatePlayerInput{PlayerID: player.ID, Patch: patch})
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to apply encounter %s to player %s", enc.ID, player.ID)
	}
	if discovered {
		slog.InfoContext(ctx, "animal discovered",
			"player_id", player.ID,
			"animal_id", animal.ID)
	}
	return updated.Player, discovered, nil
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	out, err := o.encounters.Get(ctx, &encounters.GetInput{EncounterID: input.EncounterID})
	if err == nil {
		return &GetOutput{Encounter: out.Encounter}, nil
	}
	if !errors.IsNotFound(err) || o.archive == nil {
		return nil, err
	}

	archived, err := o.archive.GetEncounter(ctx, archive.GetEncounterInput{ID: input.EncounterID})
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: archived.Encounter, Archived: true}, nil
}
