package players

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	redisclient "github.com/KirkDiggler/expedition-api/internal/redis"
)

const (
	playerKeyPrefix = "player:"
	playerIndexKey  = "player:index"
	inventorySuffix = ":inventory"
	storageSuffix   = ":storage"
	grantInfix      = ":grant:"
	resourcesKey    = "world:resources"
	biomesKey       = "world:biomes"

	// maxUpdateAttempts bounds optimistic retries when a concurrent writer
	// touches the same player between WATCH and EXEC
	maxUpdateAttempts = 5

	// grantRecordTTL outlives any retry of an unfinished completion
	grantRecordTTL = 30 * 24 * time.Hour

	errPlayerIDEmpty = "player ID cannot be empty"
	errPlayerNil     = "player cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis player repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func playerKey(id string) string {
	return playerKeyPrefix + id
}

func (r *redisRepository) GetPlayer(ctx context.Context, input GetPlayerInput) (*GetPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	player, err := r.load(ctx, r.client, input.PlayerID)
	if err != nil {
		return nil, err
	}
	return &GetPlayerOutput{Player: player}, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisRepository) load(ctx context.Context, g getter, id string) (*entities.Player, error) {
	result, err := g.Get(ctx, playerKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("player with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get player")
	}

	var player entities.Player
	if err := json.Unmarshal([]byte(result), &player); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal player data")
	}
	return &player, nil
}

func (r *redisRepository) UpdatePlayer(ctx context.Context, input UpdatePlayerInput) (*UpdatePlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := playerKey(input.PlayerID)
	var updated *entities.Player

	txf := func(tx *redis.Tx) error {
		player, err := r.load(ctx, tx, input.PlayerID)
		if err != nil {
			return err
		}
		input.Patch.Apply(player)

		data, err := json.Marshal(player)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal player data")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = player
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return &UpdatePlayerOutput{Player: updated}, nil
		}
		if err != redis.TxFailedErr {
			var coded *errors.Error
			if errors.As(err, &coded) {
				return nil, err
			}
			return nil, errors.Wrapf(err, "failed to update player")
		}
		slog.DebugContext(ctx, "player update raced, retrying",
			"player_id", input.PlayerID,
			"attempt", attempt)
	}

	return nil, errors.Newf(errors.CodeAborted, "player %s update kept conflicting", input.PlayerID)
}

func (r *redisRepository) SavePlayer(ctx context.Context, input SavePlayerInput) (*SavePlayerOutput, error) {
	if input.Player == nil {
		return nil, errors.InvalidArgument(errPlayerNil)
	}
	if input.Player.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	data, err := json.Marshal(input.Player)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal player data")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, playerKey(input.Player.ID), data, 0)
	pipe.SAdd(ctx, playerIndexKey, input.Player.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save player")
	}

	return &SavePlayerOutput{Player: input.Player}, nil
}

func (r *redisRepository) ListPlayerIDs(ctx context.Context, _ ListPlayerIDsInput) (*ListPlayerIDsOutput, error) {
	ids, err := r.client.SMembers(ctx, playerIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list player IDs")
	}
	sort.Strings(ids)
	return &ListPlayerIDsOutput{PlayerIDs: ids}, nil
}

func (r *redisRepository) GetPlayerInventory(ctx context.Context, input GetItemsInput) (*GetItemsOutput, error) {
	return r.getItems(ctx, input.PlayerID, inventorySuffix)
}

func (r *redisRepository) GetPlayerStorage(ctx context.Context, input GetItemsInput) (*GetItemsOutput, error) {
	return r.getItems(ctx, input.PlayerID, storageSuffix)
}

func (r *redisRepository) getItems(ctx context.Context, playerID, suffix string) (*GetItemsOutput, error) {
	if playerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	stacks, err := r.client.HGetAll(ctx, playerKey(playerID)+suffix).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get items for player %s", playerID)
	}

	items := make([]entities.InventoryItem, 0, len(stacks))
	for resourceID, raw := range stacks {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed item stack",
				"player_id", playerID,
				"resource_id", resourceID,
				"value", raw)
			continue
		}
		if qty <= 0 {
			continue
		}
		items = append(items, entities.InventoryItem{ResourceID: resourceID, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ResourceID < items[j].ResourceID })

	return &GetItemsOutput{Items: items}, nil
}

func (r *redisRepository) AddInventoryItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	return r.addItem(ctx, input, inventorySuffix)
}

func (r *redisRepository) AddStorageItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	return r.addItem(ctx, input, storageSuffix)
}

func (r *redisRepository) addItem(ctx context.Context, input AddItemInput, suffix string) (*AddItemOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("resource_id", input.ResourceID, vb)
	if input.Quantity <= 0 {
		vb.Field("quantity", "must be positive")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	total, err := r.client.HIncrBy(ctx, playerKey(input.PlayerID)+suffix, input.ResourceID, int64(input.Quantity)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to add %s for player %s", input.ResourceID, input.PlayerID)
	}

	return &AddItemOutput{
		Item: entities.InventoryItem{ResourceID: input.ResourceID, Quantity: int(total)},
	}, nil
}

func grantKey(playerID, sourceID string) string {
	return playerKey(playerID) + grantInfix + sourceID
}

func (r *redisRepository) ApplyGrant(ctx context.Context, input ApplyGrantInput) (*ApplyGrantOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("source_id", input.SourceID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	record, err := json.Marshal(input.Grant)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal grant")
	}

	key := playerKey(input.PlayerID)
	marker := grantKey(input.PlayerID, input.SourceID)
	var out *ApplyGrantOutput

	txf := func(tx *redis.Tx) error {
		player, err := r.load(ctx, tx, input.PlayerID)
		if err != nil {
			return err
		}

		recorded, err := tx.Get(ctx, marker).Result()
		switch {
		case err == nil:
			var grant entities.RewardGrant
			if err := json.Unmarshal([]byte(recorded), &grant); err != nil {
				return errors.Wrapf(err, "failed to unmarshal recorded grant")
			}
			out = &ApplyGrantOutput{Player: player, Grant: grant, Replayed: true}
			return nil
		case err != redis.Nil:
			return errors.Wrapf(err, "failed to read grant record")
		}

		input.Patch.Apply(player)
		data, err := json.Marshal(player)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal player data")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, p := range input.Grant.Placements {
				if p.Quantity <= 0 {
					continue
				}
				suffix := inventorySuffix
				if p.Destination == entities.DestinationStorage {
					suffix = storageSuffix
				}
				pipe.HIncrBy(ctx, key+suffix, p.ResourceID, int64(p.Quantity))
			}
			pipe.Set(ctx, key, data, 0)
			pipe.Set(ctx, marker, record, grantRecordTTL)
			return nil
		})
		if err != nil {
			return err
		}
		out = &ApplyGrantOutput{Player: player, Grant: input.Grant}
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key, marker)
		if err == nil {
			if out.Replayed {
				slog.InfoContext(ctx, "grant already applied",
					"player_id", input.PlayerID,
					"source_id", input.SourceID)
			}
			return out, nil
		}
		if err != redis.TxFailedErr {
			var coded *errors.Error
			if errors.As(err, &coded) {
				return nil, err
			}
			return nil, errors.Wrapf(err, "failed to apply grant")
		}
		slog.DebugContext(ctx, "grant raced, retrying",
			"player_id", input.PlayerID,
			"source_id", input.SourceID,
			"attempt", attempt)
	}

	return nil, errors.Newf(errors.CodeAborted, "grant %s for player %s kept conflicting", input.SourceID, input.PlayerID)
}

func (r *redisRepository) GetAllResources(ctx context.Context, _ GetAllResourcesInput) (*GetAllResourcesOutput, error) {
	raw, err := r.client.HGetAll(ctx, resourcesKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get resources")
	}

	resources := make([]*entities.Resource, 0, len(raw))
	for id, data := range raw {
		var res entities.Resource
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal resource %s", id)
		}
		resources = append(resources, &res)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].ID < resources[j].ID })

	return &GetAllResourcesOutput{Resources: resources}, nil
}

func (r *redisRepository) GetAllBiomes(ctx context.Context, _ GetAllBiomesInput) (*GetAllBiomesOutput, error) {
	raw, err := r.client.HGetAll(ctx, biomesKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get biomes")
	}

	biomes := make([]*entities.Biome, 0, len(raw))
	for id, data := range raw {
		var biome entities.Biome
		if err := json.Unmarshal([]byte(data), &biome); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal biome %s", id)
		}
		biomes = append(biomes, &biome)
	}
	sort.Slice(biomes, func(i, j int) bool { return biomes[i].ID < biomes[j].ID })

	return &GetAllBiomesOutput{Biomes: biomes}, nil
}

func (r *redisRepository) SeedWorld(ctx context.Context, input SeedWorldInput) (*SeedWorldOutput, error) {
	resources := make(map[string]interface{}, len(input.Resources))
	for _, res := range input.Resources {
		data, err := json.Marshal(res)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal resource %s", res.ID)
		}
		resources[res.ID] = data
	}
	biomes := make(map[string]interface{}, len(input.Biomes))
	for _, b := range input.Biomes {
		data, err := json.Marshal(b)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal biome %s", b.ID)
		}
		biomes[b.ID] = data
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, resourcesKey, biomesKey)
	if len(resources) > 0 {
		pipe.HSet(ctx, resourcesKey, resources)
	}
	if len(biomes) > 0 {
		pipe.HSet(ctx, biomesKey, biomes)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to seed world data")
	}

	slog.InfoContext(ctx, "seeded world data",
		"resources", len(resources),
		"biomes", len(biomes))

	return &SeedWorldOutput{}, nil
}
