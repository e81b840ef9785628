package drivers

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/clock"
	"github.com/KirkDiggler/expedition-api/internal/repositories/archive"
	"github.com/KirkDiggler/expedition-api/internal/repositories/encounters"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
)

// HistoryTaskName names the archival driver
const HistoryTaskName = "history"

// Default history settings
const (
	DefaultGracePeriod = 24 * time.Hour
	DefaultBatchSize   = 100
)

// HistoryConfig holds the dependencies of the archival driver
type HistoryConfig struct {
	Expeditions expeditions.Repository
	Encounters  encounters.Repository
	Archive     archive.Repository
	Clock       clock.Clock
	// GracePeriod is how long terminal records stay live before archival
	GracePeriod time.Duration
	// BatchSize caps the records moved per kind in one sweep
	BatchSize int
}

// Validate ensures all required dependencies are provided
func (c *HistoryConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Expeditions == nil {
		vb.RequiredField("Expeditions")
	}
	if c.Encounters == nil {
		vb.RequiredField("Encounters")
	}
	if c.Archive == nil {
		vb.RequiredField("Archive")
	}
	if c.GracePeriod < 0 {
		vb.Field("GracePeriod", "must not be negative")
	}
	return vb.Build()
}

// HistoryTask moves terminal expeditions and encounters past their grace
// period into the archive, then evicts them from the live store
type HistoryTask struct {
	expeditions expeditions.Repository
	encounters  encounters.Repository
	archive     archive.Repository
	clock       clock.Clock
	grace       time.Duration
	batch       int
}

var _ Task = (*HistoryTask)(nil)

// NewHistoryTask creates the archival driver task
func NewHistoryTask(cfg *HistoryConfig) (*HistoryTask, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid history driver config")
	}

	t := &HistoryTask{
		expeditions: cfg.Expeditions,
		encounters:  cfg.Encounters,
		archive:     cfg.Archive,
		clock:       cfg.Clock,
		grace:       cfg.GracePeriod,
		batch:       cfg.BatchSize,
	}
	if t.clock == nil {
		t.clock = clock.New()
	}
	if t.grace == 0 {
		t.grace = DefaultGracePeriod
	}
	if t.batch <= 0 {
		t.batch = DefaultBatchSize
	}
	return t, nil
}

// Name implements Task
func (t *HistoryTask) Name() string { return HistoryTaskName }

// Sweep implements Task
func (t *HistoryTask) Sweep(ctx context.Context) error {
	cutoff := t.clock.Now().Add(-t.grace)

	// encounters first so an expedition never reaches the archive ahead of
	// the fights that happened during it
	encArchived, encErr := t.sweepEncounters(ctx, cutoff)
	expArchived, expErr := t.sweepExpeditions(ctx, cutoff)

	if encArchived+expArchived > 0 {
		slog.InfoContext(ctx, "archived finished records",
			"expeditions", expArchived,
			"encounters", encArchived,
			"cutoff", cutoff)
	}

	if encErr != nil {
		return encErr
	}
	return expErr
}

func (t *HistoryTask) sweepExpeditions(ctx context.Context, cutoff time.Time) (int, error) {
	out, err := t.expeditions.ListEndedBefore(ctx, expeditions.ListEndedBeforeInput{
		Before: cutoff,
		Limit:  t.batch,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list ended expeditions")
	}

	var archived int
	for _, exp := range out.Expeditions {
		if _, err := t.archive.SaveExpedition(ctx, archive.SaveExpeditionInput{Expedition: exp}); err != nil {
			slog.WarnContext(ctx, "failed to archive expedition",
				"expedition_id", exp.ID,
				"player_id", exp.PlayerID,
				"error", err)
			continue
		}
		if _, err := t.expeditions.Evict(ctx, expeditions.EvictInput{ID: exp.ID}); err != nil {
			// archived but still live; the next sweep re-archives idempotently
			slog.WarnContext(ctx, "failed to evict archived expedition",
				"expedition_id", exp.ID,
				"error", err)
			continue
		}
		archived++
	}
	return archived, nil
}

func (t *HistoryTask) sweepEncounters(ctx context.Context, cutoff time.Time) (int, error) {
	out, err := t.encounters.ListEndedBefore(ctx, &encounters.ListEndedBeforeInput{
		Before: cutoff,
		Limit:  t.batch,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list ended encounters")
	}

	var archived int
	for _, enc := range out.Encounters {
		if _, err := t.archive.SaveEncounter(ctx, archive.SaveEncounterInput{Encounter: enc}); err != nil {
			slog.WarnContext(ctx, "failed to archive encounter",
				"encounter_id", enc.ID,
				"error", err)
			continue
		}
		if _, err := t.encounters.Delete(ctx, &encounters.DeleteInput{EncounterID: enc.ID}); err != nil {
			slog.WarnContext(ctx, "failed to evict archived encounter",
				"encounter_id", enc.ID,
				"error", err)
			continue
		}
		archived++
	}
	return archived, nil
}
