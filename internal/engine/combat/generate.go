package combat

import (
	"sort"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
)

// Eligible returns the animals whose habitats match one of the biome's tags,
// ordered by id so a roll maps onto the same animal for the same catalog.
func Eligible(biome *entities.Biome, animals []*entities.Animal) []*entities.Animal {
	if biome == nil {
		return nil
	}
	tags := biome.MatchTags()

	var out []*entities.Animal
	for _, a := range animals {
		if a.LivesIn(tags) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Roll decides whether an encounter happens and with which animal. It returns
// nil when the chance roll misses or no animal lives in the biome.
func Roll(src random.Source, chance float64, biome *entities.Biome, animals []*entities.Animal) *entities.Animal {
	if !random.Chance(src, chance) {
		return nil
	}
	eligible := Eligible(biome, animals)
	if len(eligible) == 0 {
		return nil
	}
	return eligible[random.Pick(src, len(eligible))]
}
