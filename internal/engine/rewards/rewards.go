// Package rewards turns a reward bundle into placed items and experience, and
// announces level-ups and completions on the toolkit event bus.
package rewards

//go:generate mockgen -destination=mock/mock_resolver.go -package=rewardsmock github.com/KirkDiggler/expedition-api/internal/engine/rewards Resolver

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// ExperiencePerLevelUnit scales the level curve: level = floor(sqrt(xp/100)) + 1
const ExperiencePerLevelUnit = 100

// Resolver applies reward bundles to players
type Resolver interface {
	// Grant places every resource of the bundle (inventory first, storage for
	// the remainder), adds the experience and recomputes the level. A bundle
	// is applied at most once per source ID, so retrying a failed or
	// interrupted grant never duplicates it.
	Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error)

	// AnnounceCompletion publishes the expedition.completed event
	AnnounceCompletion(ctx context.Context, input *AnnounceCompletionInput) error
}

// GrantInput is the request of Grant
type GrantInput struct {
	PlayerID string
	Bundle   entities.RewardBundle
	// SourceID names the expedition or encounter that produced the bundle
	SourceID string
}

// GrantOutput is the response of Grant
type GrantOutput struct {
	Grant  entities.RewardGrant
	Player *entities.Player
}

// AnnounceCompletionInput is the request of AnnounceCompletion
type AnnounceCompletionInput struct {
	Expedition *entities.Expedition
	Player     *entities.Player
}

// Config holds the dependencies of the resolver
type Config struct {
	Store    players.Repository
	EventBus events.EventBus
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

type resolver struct {
	store players.Repository
	bus   events.EventBus
}

// New creates a reward resolver
func New(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &resolver{store: cfg.Store, bus: cfg.EventBus}, nil
}

// LevelFor maps total experience onto a level
func LevelFor(totalExperience int) int {
	if totalExperience <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalExperience)/ExperiencePerLevelUnit))) + 1
}

// CompletionBundle builds the completion rewards of a template: guaranteed
// rewards always, every possible reward as an independent trial, the collected
// haul, and the flat experience.
func CompletionBundle(
	src random.Source,
	tmpl *entities.ExpeditionTemplate,
	collected map[string]int,
) entities.RewardBundle {
	bundle := entities.RewardBundle{Experience: tmpl.Experience}
	for _, id := range sortedKeys(tmpl.GuaranteedRewards) {
		bundle.Add(id, tmpl.GuaranteedRewards[id])
	}
	for _, pr := range tmpl.PossibleRewards {
		if random.Chance(src, pr.Chance) {
			bundle.Add(pr.ResourceID, pr.Quantity)
		}
	}
	for _, id := range sortedKeys(collected) {
		bundle.Add(id, collected[id])
	}
	return bundle
}

func (r *resolver) Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	if input.SourceID == "" {
		return nil, errors.InvalidArgument("source ID is required")
	}

	playerOut, err := r.store.GetPlayer(ctx, players.GetPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load player %s", input.PlayerID)
	}
	player := playerOut.Player

	placements, err := r.place(ctx, player, input.Bundle.Resources)
	if err != nil {
		return nil, err
	}

	total := player.Experience + input.Bundle.Experience
	level := LevelFor(total)
	if level < player.Level {
		// levels are never taken away, even if the curve and the record disagree
		level = player.Level
	}
	grant := entities.RewardGrant{
		Placements:      placements,
		Experience:      input.Bundle.Experience,
		TotalExperience: total,
		Level:           level,
		LeveledUp:       level > player.Level,
	}

	var patch entities.PlayerPatch
	if input.Bundle.Experience != 0 || grant.LeveledUp {
		patch.Experience = entities.Int(total)
		patch.Level = entities.Int(level)
	}

	applied, err := r.store.ApplyGrant(ctx, players.ApplyGrantInput{
		PlayerID: player.ID,
		SourceID: input.SourceID,
		Grant:    grant,
		Patch:    patch,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to apply rewards of %s to %s", input.SourceID, player.ID)
	}
	if applied.Replayed {
		return &GrantOutput{Grant: applied.Grant, Player: applied.Player}, nil
	}

	if grant.LeveledUp {
		r.publishLevelUp(ctx, applied.Player, player.Level, input.SourceID)
	}

	slog.InfoContext(ctx, "granted rewards",
		"player_id", player.ID,
		"source_id", input.SourceID,
		"placements", len(placements),
		"experience", grant.Experience,
		"level", grant.Level,
		"leveled_up", grant.LeveledUp)

	return &GrantOutput{Grant: grant, Player: applied.Player}, nil
}

// place plans how the bundle is split: the inventory is filled up to the
// carry capacity by weight and the remainder of each stack goes to storage
func (r *resolver) place(
	ctx context.Context,
	player *entities.Player,
	resources map[string]int,
) ([]entities.Placement, error) {
	if len(resources) == 0 {
		return nil, nil
	}

	weights, err := r.weights(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := r.store.GetPlayerInventory(ctx, players.GetItemsInput{PlayerID: player.ID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load inventory of %s", player.ID)
	}
	carried := 0.0
	for _, item := range inv.Items {
		carried += weights[item.ResourceID] * float64(item.Quantity)
	}
	free := player.EffectiveCapacity() - carried

	var placements []entities.Placement
	for _, id := range sortedKeys(resources) {
		qty := resources[id]
		if qty <= 0 {
			continue
		}
		unit, known := weights[id]
		if !known {
			slog.WarnContext(ctx, "granting resource with unknown weight",
				"player_id", player.ID,
				"resource_id", id)
		}

		toInventory := fitting(qty, unit, free)
		free -= unit * float64(toInventory)

		if toInventory > 0 {
			placements = append(placements, entities.Placement{
				ResourceID: id, Quantity: toInventory, Destination: entities.DestinationInventory,
			})
		}
		if rest := qty - toInventory; rest > 0 {
			placements = append(placements, entities.Placement{
				ResourceID: id, Quantity: rest, Destination: entities.DestinationStorage,
			})
		}
	}
	return placements, nil
}

// fitting is how many units of the given weight fit into the free capacity
func fitting(qty int, unit, free float64) int {
	if unit <= 0 {
		return qty
	}
	if free <= 0 {
		return 0
	}
	n := int(math.Floor(free / unit))
	if n > qty {
		return qty
	}
	return n
}

func (r *resolver) weights(ctx context.Context) (map[string]float64, error) {
	out, err := r.store.GetAllResources(ctx, players.GetAllResourcesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load resource weights")
	}
	weights := make(map[string]float64, len(out.Resources))
	for _, res := range out.Resources {
		weights[res.ID] = res.Weight
	}
	return weights, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
