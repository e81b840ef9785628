// Package progress maps wall-clock time onto expedition progress. Everything here
// is a pure function of (start, duration, now); nothing accumulates.
package progress

import (
	"math"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/entities"
)

// Phase thresholds in percent
const (
	TravelingAt = 20.0
	ExploringAt = 40.0
	ReturningAt = 80.0
	CompletedAt = 100.0
)

// Snapshot is the derived state at one instant
type Snapshot struct {
	Elapsed  time.Duration
	Progress float64
	Phase    entities.Phase
}

// Percent returns clamp(elapsed/duration*100, 0, 100). A non-positive duration
// has no meaningful progress and reports 0.
func Percent(start time.Time, duration time.Duration, now time.Time) float64 {
	if duration <= 0 {
		return 0
	}
	p := float64(now.Sub(start)) / float64(duration) * 100
	return math.Max(0, math.Min(CompletedAt, p))
}

// PhaseFor maps a progress percentage onto its phase
func PhaseFor(p float64) entities.Phase {
	switch {
	case p < TravelingAt:
		return entities.PhasePreparing
	case p < ExploringAt:
		return entities.PhaseTraveling
	case p < ReturningAt:
		return entities.PhaseExploring
	case p < CompletedAt:
		return entities.PhaseReturning
	default:
		return entities.PhaseCompleted
	}
}

// At computes the snapshot for now
func At(start time.Time, duration time.Duration, now time.Time) Snapshot {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}
	p := Percent(start, duration, now)
	return Snapshot{
		Elapsed:  elapsed,
		Progress: p,
		Phase:    PhaseFor(p),
	}
}

// Offset returns the elapsed time at which progress reaches pct
func Offset(duration time.Duration, pct float64) time.Duration {
	return time.Duration(float64(duration) * pct / 100)
}

// MaxDistance is the collection radius at the given progress: it grows linearly
// while traveling, is full while exploring, and collapses once returning.
func MaxDistance(full float64, p float64) float64 {
	switch {
	case p < TravelingAt, p >= ReturningAt:
		return 0
	case p >= ExploringAt:
		return full
	default:
		return full * (p - TravelingAt) / (ExploringAt - TravelingAt)
	}
}

// ProgressAt converts an elapsed offset into a percentage
func ProgressAt(duration, offset time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Max(0, math.Min(CompletedAt, float64(offset)/float64(duration)*100))
}
