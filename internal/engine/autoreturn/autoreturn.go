// Package autoreturn decides when an expedition has to come home early.
package autoreturn

import "github.com/KirkDiggler/expedition-api/internal/entities"

// Thresholds configures the forced-return conditions
type Thresholds struct {
	// CapacityRatio of carry capacity at or above which the party turns back
	CapacityRatio float64
	// MinHunger at or below which the party turns back
	MinHunger int
	// MinThirst at or below which the party turns back
	MinThirst int
}

// DefaultThresholds returns 90% capacity and 10 hunger / thirst
func DefaultThresholds() Thresholds {
	return Thresholds{
		CapacityRatio: 0.9,
		MinHunger:     10,
		MinThirst:     10,
	}
}

// State is what the evaluator looks at
type State struct {
	CarriedWeight float64
	Capacity      float64
	Hunger        int
	Thirst        int
}

// Evaluate returns the highest-priority reason that applies, or ReturnReasonNone.
// Priority: inventory_full, hunger_low, thirst_low.
func Evaluate(t Thresholds, s State) entities.ReturnReason {
	switch {
	case s.CarriedWeight >= t.CapacityRatio*s.Capacity:
		return entities.ReturnReasonInventoryFull
	case s.Hunger <= t.MinHunger:
		return entities.ReturnReasonHungerLow
	case s.Thirst <= t.MinThirst:
		return entities.ReturnReasonThirstLow
	default:
		return entities.ReturnReasonNone
	}
}
