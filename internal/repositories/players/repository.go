// Package players provides the player, inventory and world-data store the
// expedition engine reads survival stats from and grants rewards into
package players

//go:generate mockgen -destination=mock/mock_repository.go -package=playersmock github.com/KirkDiggler/expedition-api/internal/repositories/players Repository

import (
	"context"

	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// Repository defines the interface for player persistence
type Repository interface {
	// GetPlayer retrieves a player by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the player doesn't exist
	GetPlayer(ctx context.Context, input GetPlayerInput) (*GetPlayerOutput, error)

	// UpdatePlayer applies a partial update and returns the stored result
	// Returns errors.NotFound if the player doesn't exist
	UpdatePlayer(ctx context.Context, input UpdatePlayerInput) (*UpdatePlayerOutput, error)

	// SavePlayer creates or replaces a full player record
	SavePlayer(ctx context.Context, input SavePlayerInput) (*SavePlayerOutput, error)

	// ListPlayerIDs returns every known player ID
	ListPlayerIDs(ctx context.Context, input ListPlayerIDsInput) (*ListPlayerIDsOutput, error)

	// GetPlayerInventory returns the carried items of a player
	GetPlayerInventory(ctx context.Context, input GetItemsInput) (*GetItemsOutput, error)

	// GetPlayerStorage returns the camp storage of a player
	GetPlayerStorage(ctx context.Context, input GetItemsInput) (*GetItemsOutput, error)

	// AddInventoryItem adds quantity to a carried stack
	AddInventoryItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error)

	// AddStorageItem adds quantity to a storage stack
	AddStorageItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error)

	// ApplyGrant places the grant's items and applies the patch in one
	// transaction, recorded under the source ID. A second call for the same
	// source changes nothing and returns the recorded grant with Replayed set.
	// Returns errors.NotFound if the player doesn't exist
	ApplyGrant(ctx context.Context, input ApplyGrantInput) (*ApplyGrantOutput, error)

	// GetAllResources returns the resource definitions known to the world
	GetAllResources(ctx context.Context, input GetAllResourcesInput) (*GetAllResourcesOutput, error)

	// GetAllBiomes returns the biome definitions known to the world
	GetAllBiomes(ctx context.Context, input GetAllBiomesInput) (*GetAllBiomesOutput, error)

	// SeedWorld replaces the stored resource and biome definitions
	SeedWorld(ctx context.Context, input SeedWorldInput) (*SeedWorldOutput, error)
}

// GetPlayerInput defines the input for getting a player
type GetPlayerInput struct {
	PlayerID string
}

// GetPlayerOutput defines the output for getting a player
type GetPlayerOutput struct {
	Player *entities.Player
}

// UpdatePlayerInput defines the input for a partial player update
type UpdatePlayerInput struct {
	PlayerID string
	Patch    entities.PlayerPatch
}

// UpdatePlayerOutput defines the output for a partial player update
type UpdatePlayerOutput struct {
	Player *entities.Player
}

// SavePlayerInput defines the input for saving a player
type SavePlayerInput struct {
	Player *entities.Player
}

// SavePlayerOutput defines the output for saving a player
type SavePlayerOutput struct {
	Player *entities.Player
}

// ListPlayerIDsInput defines the input for listing player IDs
type ListPlayerIDsInput struct{}

// ListPlayerIDsOutput defines the output for listing player IDs
type ListPlayerIDsOutput struct {
	PlayerIDs []string
}

// GetItemsInput defines the input for reading inventory or storage
type GetItemsInput struct {
	PlayerID string
}

// GetItemsOutput defines the output for reading inventory or storage
type GetItemsOutput struct {
	Items []entities.InventoryItem
}

// AddItemInput defines the input for adding to inventory or storage
type AddItemInput struct {
	PlayerID   string
	ResourceID string
	Quantity   int
}

// AddItemOutput defines the output for adding to inventory or storage
type AddItemOutput struct {
	// Item is the stack after the addition
	Item entities.InventoryItem
}

// ApplyGrantInput defines the input for applying a reward grant
type ApplyGrantInput struct {
	PlayerID string
	// SourceID names the expedition or encounter the grant belongs to
	SourceID string
	Grant    entities.RewardGrant
	Patch    entities.PlayerPatch
}

// ApplyGrantOutput defines the output for applying a reward grant
type ApplyGrantOutput struct {
	Player *entities.Player
	// Grant is the grant recorded for the source, which differs from the
	// input when Replayed is set
	Grant    entities.RewardGrant
	Replayed bool
}

// GetAllResourcesInput defines the input for listing resources
type GetAllResourcesInput struct{}

// GetAllResourcesOutput defines the output for listing resources
type GetAllResourcesOutput struct {
	Resources []*entities.Resource
}

// GetAllBiomesInput defines the input for listing biomes
type GetAllBiomesInput struct{}

// GetAllBiomesOutput defines the output for listing biomes
type GetAllBiomesOutput struct {
	Biomes []*entities.Biome
}

// SeedWorldInput defines the input for seeding world data
type SeedWorldInput struct {
	Resources []*entities.Resource
	Biomes    []*entities.Biome
}

// SeedWorldOutput defines the output for seeding world data
type SeedWorldOutput struct{}
