package expedition

import (
	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// StartInput is the request to dispatch a new expedition
type StartInput struct {
	PlayerID   string
	TemplateID string
	// SelectedResources limits collection to these biome resources; empty means all
	SelectedResources []string
}

// StartOutput is the response of Start
type StartOutput struct {
	Expedition *entities.Expedition
	// Player is the record after upfront costs were charged
	Player *entities.Player
}

// UpdateProgressInput is the request to recompute an expedition
type UpdateProgressInput struct {
	ExpeditionID string
}

// UpdateProgressOutput is the response of UpdateProgress
type UpdateProgressOutput struct {
	Expedition *entities.Expedition
	// Changed is false when the call found nothing to do
	Changed bool
}

// CompleteInput is the request to complete an expedition
type CompleteInput struct {
	ExpeditionID string
}

// CompleteOutput is the response of Complete
type CompleteOutput struct {
	Expedition *entities.Expedition
}

// CancelInput is the request to abort an expedition
type CancelInput struct {
	ExpeditionID string
	// Reason defaults to player_abandoned
	Reason entities.CancelReason
}

// CancelOutput is the response of Cancel
type CancelOutput struct {
	Expedition *entities.Expedition
}

// GetInput is the request to read an expedition
type GetInput struct {
	ExpeditionID string
}

// GetOutput is the response of Get
type GetOutput struct {
	Expedition *entities.Expedition
	// Archived is set when the record came from the archive
	Archived bool
}

// GetActiveInput is the request to read a player's running expedition
type GetActiveInput struct {
	PlayerID string
}

// GetActiveOutput is the response of GetActive
type GetActiveOutput struct {
	Expedition *entities.Expedition
}

// ListHistoryInput is the request to list a player's expeditions
type ListHistoryInput struct {
	PlayerID string
	// Limit caps the result; zero means DefaultHistoryLimit
	Limit int
}

// ListHistoryOutput is the response of ListHistory, newest first
type ListHistoryOutput struct {
	Expeditions []*entities.Expedition
}
