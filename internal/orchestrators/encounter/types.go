package encounter

import (
	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// GenerateInput defines the request for rolling an encounter
type GenerateInput struct {
	PlayerID string
	BiomeID  string
}

// GenerateOutput defines the response of a generation roll. Encounter is nil
// when the roll missed or nothing lives in the biome.
type GenerateOutput struct {
	Encounter *entities.Encounter
	Animal    *entities.Animal
}

// ExecuteActionInput defines the request for one player action
type ExecuteActionInput struct {
	EncounterID string
	Action      string
}

// ExecuteActionOutput defines the result of one exchange
type ExecuteActionOutput struct {
	Encounter *entities.Encounter
	// PlayerAction and AnimalAction are the log records this exchange appended;
	// AnimalAction is nil when the animal did not act
	PlayerAction *entities.CombatActionRecord
	AnimalAction *entities.CombatActionRecord
	// Rewards is set when the exchange ended in victory or analysis
	Rewards *entities.RewardGrant
	// Discovered is set when analysis added the animal to the discovery record
	Discovered bool
	Player     *entities.Player
}

// GetInput defines the request for reading an encounter
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response of Get
type GetOutput struct {
	Encounter *entities.Encounter
	Archived  bool
}
