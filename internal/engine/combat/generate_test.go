package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/expedition-api/internal/engine/combat"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
)

func testAnimals() []*entities.Animal {
	return []*entities.Animal{
		{ID: "wolf", Habitats: []string{"Woodland", "highland"}},
		{ID: "cave_bat", Habitats: []string{"underground"}},
		{ID: "rabbit", Habitats: []string{" woodland "}},
		{ID: "trout", Habitats: []string{"forest_river"}},
	}
}

func TestEligibleUsesExactNormalizedTags(t *testing.T) {
	forest := &entities.Biome{ID: "forest", Tags: []string{"WOODLAND"}}

	eligible := combat.Eligible(forest, testAnimals())

	require.Len(t, eligible, 2)
	assert.Equal(t, "rabbit", eligible[0].ID)
	assert.Equal(t, "wolf", eligible[1].ID)
}

func TestEligibleMatchesBiomeID(t *testing.T) {
	caves := &entities.Biome{ID: "Underground"}

	eligible := combat.Eligible(caves, testAnimals())

	require.Len(t, eligible, 1)
	assert.Equal(t, "cave_bat", eligible[0].ID)
}

func TestRoll(t *testing.T) {
	forest := &entities.Biome{ID: "forest", Tags: []string{"woodland"}}
	desert := &entities.Biome{ID: "desert", Tags: []string{"arid"}}

	t.Run("miss", func(t *testing.T) {
		assert.Nil(t, combat.Roll(random.NewSequence(0.5), 0.3, forest, testAnimals()))
	})

	t.Run("hit picks uniformly among eligible", func(t *testing.T) {
		// 0.1 passes the chance roll, 0.9 picks the last eligible animal
		animal := combat.Roll(random.NewSequence(0.1, 0.9), 0.3, forest, testAnimals())
		require.NotNil(t, animal)
		assert.Equal(t, "wolf", animal.ID)
	})

	t.Run("no animal lives there", func(t *testing.T) {
		assert.Nil(t, combat.Roll(random.NewSequence(0.1), 0.3, desert, testAnimals()))
	})

	t.Run("roughly thirty percent", func(t *testing.T) {
		src := random.NewDefault()
		hits := 0
		for i := 0; i < 10000; i++ {
			if combat.Roll(src, 0.3, forest, testAnimals()) != nil {
				hits++
			}
		}
		assert.InDelta(t, 0.3, float64(hits)/10000, 0.02)
	})
}
