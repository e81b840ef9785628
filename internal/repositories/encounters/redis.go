package encounters

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
	encounterKeyPrefix = "encounter:"
	historyKey         = "encounter:history"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis encounter repository
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

// NewRedis creates a new Redis-backed encounter repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func encounterKey(id string) string {
	return encounterKeyPrefix + id
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}
	enc := input.Encounter

	data, err := json.Marshal(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal encounter")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, encounterKey(enc.ID), data, 0)
	if enc.EndedAt != nil {
		pipe.ZAdd(ctx, historyKey, redis.Z{
			Score:  float64(enc.EndedAt.UnixMilli()),
			Member: enc.ID,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save encounter")
	}

	return &SaveOutput{Success: true}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	enc, err := r.load(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: enc}, nil
}

func (r *redisRepository) load(ctx context.Context, id string) (*entities.Encounter, error) {
	result, err := r.client.Get(ctx, encounterKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("encounter %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get encounter")
	}

	var enc entities.Encounter
	if err := json.Unmarshal([]byte(result), &enc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal encounter data")
	}
	return &enc, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, encounterKey(input.EncounterID))
	pipe.ZRem(ctx, historyKey, input.EncounterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete encounter")
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}

	return &DeleteOutput{Success: true}, nil
}

func (r *redisRepository) ListEndedBefore(
	ctx context.Context,
	input *ListEndedBeforeInput,
) (*ListEndedBeforeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	ids, err := r.client.ZRangeByScore(ctx, historyKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "(" + strconv.FormatInt(input.Before.UnixMilli(), 10),
		Count: int64(input.Limit),
	}).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list encounter history")
	}

	out := make([]*entities.Encounter, 0, len(ids))
	for _, id := range ids {
		enc, err := r.load(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "encounter not found, cleaning up index",
					"encounter_id", id)
				r.client.ZRem(ctx, historyKey, id)
				continue
			}
			return nil, err
		}
		out = append(out, enc)
	}

	return &ListEndedBeforeOutput{Encounters: out}, nil
}
