package autoreturn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/expedition-api/internal/engine/autoreturn"
	"github.com/KirkDiggler/expedition-api/internal/entities"
)

func TestEvaluate(t *testing.T) {
	th := autoreturn.DefaultThresholds()

	testCases := []struct {
		name     string
		state    autoreturn.State
		expected entities.ReturnReason
	}{
		{
			name:     "healthy and light",
			state:    autoreturn.State{CarriedWeight: 10, Capacity: 100, Hunger: 50, Thirst: 50},
			expected: entities.ReturnReasonNone,
		},
		{
			name:     "exactly ninety percent",
			state:    autoreturn.State{CarriedWeight: 90, Capacity: 100, Hunger: 50, Thirst: 50},
			expected: entities.ReturnReasonInventoryFull,
		},
		{
			name:     "hunger at threshold",
			state:    autoreturn.State{CarriedWeight: 0, Capacity: 100, Hunger: 10, Thirst: 50},
			expected: entities.ReturnReasonHungerLow,
		},
		{
			name:     "thirst at threshold",
			state:    autoreturn.State{CarriedWeight: 0, Capacity: 100, Hunger: 11, Thirst: 10},
			expected: entities.ReturnReasonThirstLow,
		},
		{
			name:     "inventory wins over hunger and thirst",
			state:    autoreturn.State{CarriedWeight: 95, Capacity: 100, Hunger: 0, Thirst: 0},
			expected: entities.ReturnReasonInventoryFull,
		},
		{
			name:     "hunger wins over thirst",
			state:    autoreturn.State{CarriedWeight: 0, Capacity: 100, Hunger: 5, Thirst: 5},
			expected: entities.ReturnReasonHungerLow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, autoreturn.Evaluate(th, tc.state))
		})
	}
}
