// Package collection implements the per-step resource collection roll.
package collection

import (
	"time"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
)

// Config holds the costs of collecting
type Config struct {
	// HungerPerUnit and ThirstPerUnit are charged for every unit collected
	HungerPerUnit int
	ThirstPerUnit int
	// MinStep is the least simulated time one attempt consumes
	MinStep time.Duration
}

// DefaultConfig returns the standard costs
func DefaultConfig() Config {
	return Config{
		HungerPerUnit: 1,
		ThirstPerUnit: 1,
		MinStep:       10 * time.Second,
	}
}

// Candidate is a selected biome resource together with its unit weight
type Candidate struct {
	entities.BiomeResource
	UnitWeight float64
}

// Input describes one evaluation step
type Input struct {
	Candidates     []Candidate
	MaxDistance    float64
	GatheringBonus float64
	CarriedWeight  float64
	Capacity       float64
}

// Result is the outcome of one step
type Result struct {
	// Attempted is false when no candidate was in range
	Attempted  bool
	ResourceID string
	Success    bool
	Quantity   int
	Weight     float64
	// ForcedReturn is set when a find did not fit in the remaining capacity
	ForcedReturn bool
	TimeSpent    time.Duration
	HungerCost   int
	ThirstCost   int
}

// InRange filters candidates whose distance from camp is within maxDistance
func InRange(candidates []Candidate, maxDistance float64) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DistanceFromCamp <= maxDistance {
			out = append(out, c)
		}
	}
	return out
}

// Attempt runs one collection step: pick an in-range candidate uniformly, roll
// against its chance, and check capacity on success. A failed roll still spends
// half of the candidate's collection time.
func Attempt(src random.Source, cfg Config, in Input) Result {
	eligible := InRange(in.Candidates, in.MaxDistance)
	if len(eligible) == 0 {
		return Result{}
	}

	pick := eligible[random.Pick(src, len(eligible))]
	fullTime := time.Duration(pick.CollectionSeconds) * time.Second
	res := Result{
		Attempted:  true,
		ResourceID: pick.ResourceID,
	}

	if random.Percent(src) >= pick.CollectionChance+in.GatheringBonus {
		res.TimeSpent = maxDuration(fullTime/2, cfg.MinStep)
		return res
	}

	quantity := pick.Yield
	if quantity <= 0 {
		quantity = 1
	}
	weight := pick.UnitWeight * float64(quantity)
	if in.CarriedWeight+weight > in.Capacity {
		res.ForcedReturn = true
		return res
	}

	res.Success = true
	res.Quantity = quantity
	res.Weight = weight
	res.TimeSpent = maxDuration(fullTime, cfg.MinStep)
	res.HungerCost = cfg.HungerPerUnit * quantity
	res.ThirstCost = cfg.ThirstPerUnit * quantity
	return res
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
