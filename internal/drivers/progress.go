package drivers

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
)

// ProgressTaskName names the progress driver
const ProgressTaskName = "progress"

// ProgressConfig holds the dependencies of the progress driver
type ProgressConfig struct {
	Expeditions expeditions.Repository
	Service     expedition.Service
}

// Validate ensures all required dependencies are provided
func (c *ProgressConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Expeditions == nil {
		vb.RequiredField("Expeditions")
	}
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	return vb.Build()
}

// ProgressTask advances every active expedition, so collection, auto-return
// and completion happen even while nobody polls
type ProgressTask struct {
	expeditions expeditions.Repository
	service     expedition.Service
}

var _ Task = (*ProgressTask)(nil)

// NewProgressTask creates the progress driver task
func NewProgressTask(cfg *ProgressConfig) (*ProgressTask, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid progress driver config")
	}
	return &ProgressTask{expeditions: cfg.Expeditions, service: cfg.Service}, nil
}

// Name implements Task
func (t *ProgressTask) Name() string { return ProgressTaskName }

// Sweep implements Task
func (t *ProgressTask) Sweep(ctx context.Context) error {
	active, err := t.expeditions.ListActive(ctx, expeditions.ListActiveInput{})
	if err != nil {
		return errors.Wrap(err, "failed to list active expeditions")
	}

	var changed, failed int
	for _, exp := range active.Expeditions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out, err := t.service.UpdateProgress(ctx, &expedition.UpdateProgressInput{ExpeditionID: exp.ID})
		if err != nil {
			failed++
			slog.WarnContext(ctx, "progress update failed",
				"expedition_id", exp.ID,
				"player_id", exp.PlayerID,
				"error", err)
			continue
		}
		if out.Changed {
			changed++
		}
	}

	if len(active.Expeditions) > 0 {
		slog.DebugContext(ctx, "progress sweep",
			"active", len(active.Expeditions),
			"changed", changed,
			"failed", failed)
	}
	return nil
}
