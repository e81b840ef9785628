package expedition

import (
	"context"

	"github.com/KirkDiggler/expedition-api/internal/engine/collection"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// world is the biome and resource data held by the player store, indexed by ID
type world struct {
	biomes    map[string]*entities.Biome
	resources map[string]*entities.Resource
}

func (o *Orchestrator) loadWorld(ctx context.Context) (*world, error) {
	resources, err := o.players.GetAllResources(ctx, players.GetAllResourcesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load resources")
	}
	biomes, err := o.players.GetAllBiomes(ctx, players.GetAllBiomesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load biomes")
	}

	w := &world{
		biomes:    make(map[string]*entities.Biome, len(biomes.Biomes)),
		resources: make(map[string]*entities.Resource, len(resources.Resources)),
	}
	for _, b := range biomes.Biomes {
		w.biomes[b.ID] = b
	}
	for _, r := range resources.Resources {
		w.resources[r.ID] = r
	}
	return w, nil
}

// toolCategories is the set of normalized tool categories among carried items
func (w *world) toolCategories(items []entities.InventoryItem) map[string]struct{} {
	tools := make(map[string]struct{})
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if res, ok := w.resources[item.ResourceID]; ok && res.ToolCategory != "" {
			tools[entities.NormalizeTag(res.ToolCategory)] = struct{}{}
		}
	}
	return tools
}

// carriedWeight is the weight of the given stacks
func (w *world) carriedWeight(items []entities.InventoryItem) float64 {
	total := 0.0
	for _, item := range items {
		if res, ok := w.resources[item.ResourceID]; ok {
			total += res.Weight * float64(item.Quantity)
		}
	}
	return total
}

// candidates returns the selected biome resources with their unit weights
func (w *world) candidates(biome *entities.Biome, selected []string) []collection.Candidate {
	keep := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		keep[id] = struct{}{}
	}

	out := make([]collection.Candidate, 0, len(selected))
	for _, r := range biome.Resources {
		if _, ok := keep[r.ResourceID]; !ok {
			continue
		}
		c := collection.Candidate{BiomeResource: r}
		if res, ok := w.resources[r.ResourceID]; ok {
			c.UnitWeight = res.Weight
		}
		out = append(out, c)
	}
	return out
}
