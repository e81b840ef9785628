package testutils

import (
	"context"
	"testing"

	"github.com/KirkDiggler/expedition-api/internal/catalog"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
)

// Test world template IDs
const (
	TemplateMeadow     = "meadow_walk"
	TemplateQuarry     = "quarry_run"
	TemplateGuaranteed = "supply_drop"
)

// TestResources returns the resources of the test world
func TestResources() []*entities.Resource {
	return []*entities.Resource{
		{ID: "berries", Name: "Berries", Weight: 0.5, Category: "food"},
		{ID: "fiber", Name: "Fiber", Weight: 1, Category: "material"},
		{ID: "flint", Name: "Flint", Weight: 2, Category: "material"},
		{ID: "hide", Name: "Hide", Weight: 2, Category: "material"},
		{ID: "pickaxe", Name: "Pickaxe", Weight: 4, Category: "tool", ToolCategory: "pickaxe"},
		{ID: "stone", Name: "Stone", Weight: 5, Category: "material"},
	}
}

// TestBiomes returns the biomes of the test world. The meadow offers a
// certain find next to camp and a far one out of reach until fully deployed.
func TestBiomes() []*entities.Biome {
	return []*entities.Biome{
		{
			ID:               "meadow",
			Name:             "Meadow",
			LevelRequirement: 1,
			Tags:             []string{"grassland", "Open Field"},
			Resources: []entities.BiomeResource{
				{ResourceID: "berries", CollectionChance: 100, DistanceFromCamp: 0, CollectionSeconds: 60, Yield: 1},
				{ResourceID: "flint", CollectionChance: 100, DistanceFromCamp: 50, CollectionSeconds: 60, Yield: 1},
			},
		},
		{
			ID:               "quarry",
			Name:             "Quarry",
			LevelRequirement: 3,
			Tags:             []string{"rocky"},
			Resources: []entities.BiomeResource{
				{ResourceID: "stone", CollectionChance: 50, DistanceFromCamp: 10, CollectionSeconds: 120, Yield: 1},
			},
		},
		{
			ID:   "depot",
			Name: "Depot",
		},
	}
}

// TestTemplates returns the templates of the test world
func TestTemplates() []*entities.ExpeditionTemplate {
	return []*entities.ExpeditionTemplate{
		{
			ID:                 TemplateMeadow,
			Name:               "Meadow Walk",
			BiomeID:            "meadow",
			MinDurationMinutes: 10,
			MaxDurationMinutes: 10,
			MaxDistance:        30,
			Requirements:       entities.Requirements{MinLevel: 1, MinHunger: 20, MinThirst: 20, MinHealth: 20},
			Experience:         20,
		},
		{
			ID:                 TemplateQuarry,
			Name:               "Quarry Run",
			BiomeID:            "quarry",
			MinDurationMinutes: 30,
			MaxDurationMinutes: 60,
			MaxDistance:        20,
			Requirements: entities.Requirements{
				MinLevel: 2, MinHunger: 90, MinThirst: 90, MinHealth: 90,
				ToolCategories: []string{"pickaxe"},
			},
			GuaranteedRewards: map[string]int{"stone": 2},
			Experience:        60,
		},
		{
			ID:                 TemplateGuaranteed,
			Name:               "Supply Drop",
			BiomeID:            "depot",
			MinDurationMinutes: 10,
			MaxDurationMinutes: 10,
			GuaranteedRewards:  map[string]int{"fiber": 5},
			Experience:         10,
		},
	}
}

// TestAnimals returns the animals of the test world
func TestAnimals() []*entities.Animal {
	return []*entities.Animal{
		{
			ID: "boar", Name: "Boar", Habitats: []string{"Grassland"},
			Health: 30, Attack: 12, Defense: 4, Experience: 40,
			Moves: []entities.AnimalMove{{Name: "gore", Power: 2}},
			Drops: []entities.Drop{{ResourceID: "hide", Rate: 1, Min: 2, Max: 2}},
		},
		{
			ID: "goat", Name: "Goat", Habitats: []string{"rocky"},
			Health: 20, Attack: 6, Defense: 2, Experience: 20,
			Moves: []entities.AnimalMove{{Name: "headbutt", Power: 1}},
		},
	}
}

// CreateTestCatalog builds the test world catalog. When withDefault is set,
// unknown templates fall back to the meadow walk.
func CreateTestCatalog(t *testing.T, withDefault bool) *catalog.Catalog {
	t.Helper()
	defaultID := ""
	if withDefault {
		defaultID = TemplateMeadow
	}
	c, err := catalog.New(defaultID, TestTemplates(), TestBiomes(), TestResources(), TestAnimals())
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return c
}

// SeedTestWorld writes the test world and the given players into the store
func SeedTestWorld(t *testing.T, store players.Repository, people ...*entities.Player) {
	t.Helper()
	ctx := context.Background()
	if _, err := store.SeedWorld(ctx, players.SeedWorldInput{
		Resources: TestResources(),
		Biomes:    TestBiomes(),
	}); err != nil {
		t.Fatalf("failed to seed world: %v", err)
	}
	for _, p := range people {
		if _, err := store.SavePlayer(ctx, players.SavePlayerInput{Player: p}); err != nil {
			t.Fatalf("failed to save player %s: %v", p.ID, err)
		}
	}
}
