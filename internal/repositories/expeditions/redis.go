package expeditions

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	redisclient "github.com/KirkDiggler/expedition-api/internal/redis"
)

const (
	expeditionKeyPrefix = "expedition:"
	activeSlotPrefix    = "expedition:active:"
	activeSetKey        = "expedition:active"
	historyKey          = "expedition:history"
	playerIndexPrefix   = "expedition:player:"

	errExpeditionNil     = "expedition cannot be nil"
	errExpeditionIDEmpty = "expedition ID cannot be empty"
	errPlayerIDEmpty     = "player ID cannot be empty"
)

// createActive claims the player's active slot and writes the record in one
// step. It returns 0 on success, or the ID currently holding the slot.
var createActive = redis.NewScript(`
if redis.call("SET", KEYS[1], ARGV[1], "NX") then
	redis.call("SET", KEYS[2], ARGV[2])
	redis.call("SADD", KEYS[3], ARGV[1])
	redis.call("ZADD", KEYS[4], ARGV[3], ARGV[1])
	return 0
end
return redis.call("GET", KEYS[1])
`)

// releaseActive deletes the player's active slot only while it still points at
// the given expedition
var releaseActive = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis expedition repository
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

// NewRedis creates a new Redis-backed expedition repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func expeditionKey(id string) string {
	return expeditionKeyPrefix + id
}

func activeSlotKey(playerID string) string {
	return activeSlotPrefix + playerID
}

func playerIndexKey(playerID string) string {
	return playerIndexPrefix + playerID
}

func validateRecord(exp *entities.Expedition) error {
	if exp == nil {
		return errors.InvalidArgument(errExpeditionNil)
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", exp.ID, vb)
	errors.ValidateRequired("player_id", exp.PlayerID, vb)
	return vb.Build()
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	exp := input.Expedition
	if err := validateRecord(exp); err != nil {
		return nil, err
	}
	if !exp.IsActive() {
		return nil, errors.InvalidArgumentf("new expedition must be active, got %s", exp.Status)
	}

	data, err := json.Marshal(exp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal expedition")
	}

	keys := []string{
		activeSlotKey(exp.PlayerID),
		expeditionKey(exp.ID),
		activeSetKey,
		playerIndexKey(exp.PlayerID),
	}
	score := strconv.FormatInt(exp.StartTime.UnixMilli(), 10)

	// a slot left pointing at a missing or finished expedition is reclaimed once
	for attempt := 0; attempt < 2; attempt++ {
		res, err := createActive.Run(ctx, r.client, keys, exp.ID, data, score).Result()
		if err == redis.Nil {
			// the holder let go between the claim and the read
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create expedition")
		}
		holder, conflict := res.(string)
		if !conflict {
			return &CreateOutput{Expedition: exp}, nil
		}

		current, err := r.load(ctx, holder)
		switch {
		case err == nil && current.IsActive():
			return nil, errors.ConflictActiveExpedition(exp.PlayerID, holder)
		case err != nil && !errors.IsNotFound(err):
			return nil, err
		}

		slog.WarnContext(ctx, "reclaiming stale active expedition slot",
			"player_id", exp.PlayerID,
			"stale_expedition_id", holder)
		if err := releaseActive.Run(ctx, r.client, keys[:1], holder).Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to release stale active slot")
		}
	}

	return nil, errors.ConflictActiveExpedition(exp.PlayerID, "")
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errExpeditionIDEmpty)
	}

	exp, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Expedition: exp}, nil
}

func (r *redisRepository) load(ctx context.Context, id string) (*entities.Expedition, error) {
	result, err := r.client.Get(ctx, expeditionKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("expedition with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get expedition")
	}

	var exp entities.Expedition
	if err := json.Unmarshal([]byte(result), &exp); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal expedition data")
	}
	return &exp, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	exp := input.Expedition
	if err := validateRecord(exp); err != nil {
		return nil, err
	}

	key := expeditionKey(exp.ID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("expedition with ID %s not found", exp.ID)
	}

	data, err := json.Marshal(exp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal expedition")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if exp.Status.IsTerminal() {
		pipe.SRem(ctx, activeSetKey, exp.ID)
		pipe.ZAdd(ctx, historyKey, redis.Z{
			Score:  float64(endedAt(exp)),
			Member: exp.ID,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update expedition")
	}

	if exp.Status.IsTerminal() {
		if err := releaseActive.Run(ctx, r.client, []string{activeSlotKey(exp.PlayerID)}, exp.ID).Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to release active slot")
		}
	}

	return &UpdateOutput{Expedition: exp}, nil
}

func endedAt(exp *entities.Expedition) int64 {
	if exp.EndedAt != nil {
		return exp.EndedAt.UnixMilli()
	}
	return exp.UpdatedAt.UnixMilli()
}

func (r *redisRepository) GetActiveByPlayer(
	ctx context.Context,
	input GetActiveByPlayerInput,
) (*GetActiveByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	id, err := r.client.Get(ctx, activeSlotKey(input.PlayerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("player %s has no active expedition", input.PlayerID)
		}
		return nil, errors.Wrapf(err, "failed to read active slot")
	}

	exp, err := r.load(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("player %s has no active expedition", input.PlayerID)
		}
		return nil, err
	}
	if !exp.IsActive() {
		return nil, errors.NotFoundf("player %s has no active expedition", input.PlayerID)
	}

	return &GetActiveByPlayerOutput{Expedition: exp}, nil
}

func (r *redisRepository) ListActive(ctx context.Context, _ ListActiveInput) (*ListActiveOutput, error) {
	ids, err := r.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list active expeditions")
	}

	exps, err := r.loadAll(ctx, ids, func(id string) {
		r.client.SRem(ctx, activeSetKey, id)
	})
	if err != nil {
		return nil, err
	}
	return &ListActiveOutput{Expeditions: exps}, nil
}

func (r *redisRepository) ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	indexKey := playerIndexKey(input.PlayerID)
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list expeditions for player %s", input.PlayerID)
	}

	exps, err := r.loadAll(ctx, ids, func(id string) {
		r.client.ZRem(ctx, indexKey, id)
	})
	if err != nil {
		return nil, err
	}
	return &ListByPlayerOutput{Expeditions: exps}, nil
}

func (r *redisRepository) ListEndedBefore(
	ctx context.Context,
	input ListEndedBeforeInput,
) (*ListEndedBeforeOutput, error) {
	ids, err := r.client.ZRangeByScore(ctx, historyKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "(" + strconv.FormatInt(input.Before.UnixMilli(), 10),
		Count: int64(input.Limit),
	}).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list expedition history")
	}

	exps, err := r.loadAll(ctx, ids, func(id string) {
		r.client.ZRem(ctx, historyKey, id)
	})
	if err != nil {
		return nil, err
	}
	return &ListEndedBeforeOutput{Expeditions: exps}, nil
}

// loadAll fetches the records behind an index, dropping dangling index entries
func (r *redisRepository) loadAll(
	ctx context.Context,
	ids []string,
	prune func(id string),
) ([]*entities.Expedition, error) {
	exps := make([]*entities.Expedition, 0, len(ids))
	for _, id := range ids {
		exp, err := r.load(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "expedition not found, cleaning up index",
					"expedition_id", id)
				prune(id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get expedition %s", id)
		}
		exps = append(exps, exp)
	}
	return exps, nil
}

func (r *redisRepository) Evict(ctx context.Context, input EvictInput) (*EvictOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errExpeditionIDEmpty)
	}

	exp, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if exp.IsActive() {
		return nil, errors.FailedPreconditionf("expedition %s is still active", exp.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, expeditionKey(exp.ID))
	pipe.ZRem(ctx, historyKey, exp.ID)
	pipe.ZRem(ctx, playerIndexKey(exp.PlayerID), exp.ID)
	pipe.SRem(ctx, activeSetKey, exp.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to evict expedition")
	}

	return &EvictOutput{}, nil
}
