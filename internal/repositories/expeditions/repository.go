// Package expeditions provides the interface for expedition instance persistence
package expeditions

//go:generate mockgen -destination=mock/mock_repository.go -package=expeditionsmock github.com/KirkDiggler/expedition-api/internal/repositories/expeditions Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// Repository defines the interface for expedition persistence
type Repository interface {
	// Create stores a new active expedition and claims the player's active slot.
	// The claim is a conditional insert, so two concurrent creates for the same
	// player cannot both succeed.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists with reason CONFLICT_ACTIVE_EXPEDITION if the
	// player already has an active expedition
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an expedition by ID
	// Returns errors.NotFound if the expedition doesn't exist (or was evicted)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an expedition. A terminal status releases the player's
	// active slot and moves the expedition into the history window.
	// Returns errors.NotFound if the expedition doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// GetActiveByPlayer returns the player's active expedition
	// Returns errors.NotFound if the player has none
	GetActiveByPlayer(ctx context.Context, input GetActiveByPlayerInput) (*GetActiveByPlayerOutput, error)

	// ListActive returns every active expedition
	ListActive(ctx context.Context, input ListActiveInput) (*ListActiveOutput, error)

	// ListByPlayer returns the player's expeditions still held in the store,
	// newest first
	ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error)

	// ListEndedBefore returns terminal expeditions that ended before the cutoff
	ListEndedBefore(ctx context.Context, input ListEndedBeforeInput) (*ListEndedBeforeOutput, error)

	// Evict removes a terminal expedition and its index entries
	Evict(ctx context.Context, input EvictInput) (*EvictOutput, error)
}

// CreateInput defines the input for creating an expedition
type CreateInput struct {
	Expedition *entities.Expedition
}

// CreateOutput defines the output for creating an expedition
type CreateOutput struct {
	Expedition *entities.Expedition
}

// GetInput defines the input for getting an expedition
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an expedition
type GetOutput struct {
	Expedition *entities.Expedition
}

// UpdateInput defines the input for updating an expedition
type UpdateInput struct {
	Expedition *entities.Expedition
}

// UpdateOutput defines the output for updating an expedition
type UpdateOutput struct {
	Expedition *entities.Expedition
}

// GetActiveByPlayerInput defines the input for looking up the active expedition
type GetActiveByPlayerInput struct {
	PlayerID string
}

// GetActiveByPlayerOutput defines the output for looking up the active expedition
type GetActiveByPlayerOutput struct {
	Expedition *entities.Expedition
}

// ListActiveInput defines the input for listing active expeditions
type ListActiveInput struct{}

// ListActiveOutput defines the output for listing active expeditions
type ListActiveOutput struct {
	Expeditions []*entities.Expedition
}

// ListByPlayerInput defines the input for listing a player's expeditions
type ListByPlayerInput struct {
	PlayerID string
	// Limit caps the result; zero means no limit
	Limit int
}

// ListByPlayerOutput defines the output for listing a player's expeditions
type ListByPlayerOutput struct {
	Expeditions []*entities.Expedition
}

// ListEndedBeforeInput defines the input for the history sweep
type ListEndedBeforeInput struct {
	Before time.Time
	// Limit caps one sweep batch; zero means no limit
	Limit int
}

// ListEndedBeforeOutput defines the output for the history sweep
type ListEndedBeforeOutput struct {
	Expeditions []*entities.Expedition
}

// EvictInput defines the input for evicting an expedition
type EvictInput struct {
	ID string
}

// EvictOutput defines the output for evicting an expedition
type EvictOutput struct{}
