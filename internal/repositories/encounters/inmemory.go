package encounters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.Encounter
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.Encounter),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Save stores a copy of the encounter
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Encounter.ID] = input.Encounter.Clone()

	return &SaveOutput{Success: true}, nil
}

// Get retrieves an encounter by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, exists := r.store[input.EncounterID]
	if !exists {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Encounter: enc.Clone()}, nil
}

// Delete removes an encounter
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.EncounterID]; !exists {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}

	delete(r.store, input.EncounterID)

	return &DeleteOutput{Success: true}, nil
}

// ListEndedBefore returns terminal encounters that ended before the cutoff,
// oldest first
func (r *InMemoryRepository) ListEndedBefore(
	_ context.Context,
	input *ListEndedBeforeInput,
) (*ListEndedBeforeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Encounter
	for _, enc := range r.store {
		if enc.EndedAt != nil && enc.EndedAt.Before(input.Before) {
			out = append(out, enc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndedAt.Before(*out[j].EndedAt) })
	if input.Limit > 0 && len(out) > input.Limit {
		out = out[:input.Limit]
	}

	return &ListEndedBeforeOutput{Encounters: out}, nil
}
