// Package encounters provides the storage interface for combat encounters
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountersmock github.com/KirkDiggler/expedition-api/internal/repositories/encounters Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
)

// Repository defines the storage interface for encounters
type Repository interface {
	// Save creates or replaces an encounter. Terminal encounters enter the
	// history window used by the archive sweep.
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves an encounter by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Delete removes an encounter
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// ListEndedBefore returns terminal encounters that ended before the cutoff
	ListEndedBefore(ctx context.Context, input *ListEndedBeforeInput) (*ListEndedBeforeOutput, error)
}

// SaveInput defines the request for saving an encounter
type SaveInput struct {
	Encounter *entities.Encounter
}

// SaveOutput defines the response for saving an encounter
type SaveOutput struct {
	Success bool
}

// GetInput defines the request for retrieving an encounter
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response for retrieving an encounter
type GetOutput struct {
	Encounter *entities.Encounter
}

// DeleteInput defines the request for deleting an encounter
type DeleteInput struct {
	EncounterID string
}

// DeleteOutput defines the response for deleting an encounter
type DeleteOutput struct {
	Success bool
}

// ListEndedBeforeInput defines the request for the history sweep
type ListEndedBeforeInput struct {
	Before time.Time
	// Limit caps one sweep batch; zero means no limit
	Limit int
}

// ListEndedBeforeOutput defines the response for the history sweep
type ListEndedBeforeOutput struct {
	Encounters []*entities.Encounter
}

func validateSave(input *SaveInput) error {
	if input == nil || input.Encounter == nil {
		return errors.InvalidArgument("encounter is required")
	}
	if input.Encounter.ID == "" {
		return errors.InvalidArgument("encounter ID is required")
	}
	return nil
}
