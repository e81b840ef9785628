// Package archive keeps finished expeditions and encounters after they leave
// the hot Redis store
package archive

//go:generate mockgen -destination=mock/mock_repository.go -package=archivemock github.com/KirkDiggler/expedition-api/internal/repositories/archive Repository

import (
	"context"

	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// Repository defines the interface for the terminal-record archive
type Repository interface {
	// SaveExpedition archives a terminal expedition; saving twice overwrites
	// Returns errors.FailedPrecondition for an active expedition
	SaveExpedition(ctx context.Context, input SaveExpeditionInput) (*SaveExpeditionOutput, error)

	// GetExpedition restores an archived expedition
	// Returns errors.NotFound if it was never archived
	GetExpedition(ctx context.Context, input GetExpeditionInput) (*GetExpeditionOutput, error)

	// ListExpeditionsByPlayer restores a player's archived expeditions, newest first
	ListExpeditionsByPlayer(ctx context.Context, input ListExpeditionsByPlayerInput) (*ListExpeditionsByPlayerOutput, error)

	// SaveEncounter archives a terminal encounter
	SaveEncounter(ctx context.Context, input SaveEncounterInput) (*SaveEncounterOutput, error)

	// GetEncounter restores an archived encounter
	// Returns errors.NotFound if it was never archived
	GetEncounter(ctx context.Context, input GetEncounterInput) (*GetEncounterOutput, error)
}

// SaveExpeditionInput defines the input for archiving an expedition
type SaveExpeditionInput struct {
	Expedition *entities.Expedition
}

// SaveExpeditionOutput defines the output for archiving an expedition
type SaveExpeditionOutput struct{}

// GetExpeditionInput defines the input for restoring an expedition
type GetExpeditionInput struct {
	ID string
}

// GetExpeditionOutput defines the output for restoring an expedition
type GetExpeditionOutput struct {
	Expedition *entities.Expedition
}

// ListExpeditionsByPlayerInput defines the input for listing archived expeditions
type ListExpeditionsByPlayerInput struct {
	PlayerID string
	// Limit caps the result; zero means no limit
	Limit int
}

// ListExpeditionsByPlayerOutput defines the output for listing archived expeditions
type ListExpeditionsByPlayerOutput struct {
	Expeditions []*entities.Expedition
}

// SaveEncounterInput defines the input for archiving an encounter
type SaveEncounterInput struct {
	Encounter *entities.Encounter
}

// SaveEncounterOutput defines the output for archiving an encounter
type SaveEncounterOutput struct{}

// GetEncounterInput defines the input for restoring an encounter
type GetEncounterInput struct {
	ID string
}

// GetEncounterOutput defines the output for restoring an encounter
type GetEncounterOutput struct {
	Encounter *entities.Encounter
}
