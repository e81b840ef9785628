package testutils

import (
	"time"

	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// Fixture stats for a rested level 1 player
const (
	TestPlayerName     = "Wren Ashdown"
	TestPlayerHunger   = 80
	TestPlayerThirst   = 80
	TestPlayerHealth   = 80
	TestPlayerCapacity = 50.0
)

// CreateTestPlayer creates a rested player with sensible defaults
func CreateTestPlayer(id string) *entities.Player {
	return &entities.Player{
		ID:            id,
		Name:          TestPlayerName,
		Level:         1,
		Health:        TestPlayerHealth,
		MaxHealth:     100,
		Hunger:        TestPlayerHunger,
		Thirst:        TestPlayerThirst,
		Attack:        10,
		Defense:       4,
		CarryCapacity: TestPlayerCapacity,
	}
}

// CreateTestExpedition creates an active expedition that started at start
func CreateTestExpedition(id, playerID string, start time.Time, duration time.Duration) *entities.Expedition {
	return &entities.Expedition{
		ID:                 id,
		PlayerID:           playerID,
		TemplateID:         "forest_foraging",
		TemplateSource:     entities.TemplateSourceRequested,
		BiomeID:            "forest",
		StartTime:          start,
		Duration:           duration,
		Status:             entities.ExpeditionStatusActive,
		Phase:              entities.PhasePreparing,
		CollectedResources: map[string]int{},
		UpdatedAt:          start,
	}
}

// CreateTestEncounter creates an active encounter against the given animal
func CreateTestEncounter(id, playerID, expeditionID string, animal *entities.Animal, created time.Time) *entities.Encounter {
	return &entities.Encounter{
		ID:           id,
		PlayerID:     playerID,
		ExpeditionID: expeditionID,
		AnimalID:     animal.ID,
		Status:       entities.EncounterStatusActive,
		PlayerHealth: TestPlayerHealth,
		AnimalHealth: animal.Health,
		CreatedAt:    created,
	}
}
