package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/expedition-api/internal/engine/progress"
	"github.com/KirkDiggler/expedition-api/internal/entities"
)

func TestPercentClampsAndScales(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	duration := 10 * time.Minute

	testCases := []struct {
		name     string
		now      time.Time
		expected float64
	}{
		{"before start", start.Add(-time.Minute), 0},
		{"at start", start, 0},
		{"quarter", start.Add(150 * time.Second), 25},
		{"half", start.Add(5 * time.Minute), 50},
		{"exactly done", start.Add(duration), 100},
		{"long after", start.Add(time.Hour), 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, progress.Percent(start, duration, tc.now), 1e-9)
		})
	}
}

func TestPercentIsRepeatable(t *testing.T) {
	start := time.Now()
	now := start.Add(3 * time.Minute)
	first := progress.At(start, 7*time.Minute, now)
	second := progress.At(start, 7*time.Minute, now)
	assert.Equal(t, first, second)
}

func TestPercentNonPositiveDuration(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0.0, progress.Percent(now, 0, now.Add(time.Hour)))
}

func TestPhaseThresholds(t *testing.T) {
	assert.Equal(t, entities.PhasePreparing, progress.PhaseFor(0))
	assert.Equal(t, entities.PhasePreparing, progress.PhaseFor(19.99))
	assert.Equal(t, entities.PhaseTraveling, progress.PhaseFor(20))
	assert.Equal(t, entities.PhaseTraveling, progress.PhaseFor(39.9))
	assert.Equal(t, entities.PhaseExploring, progress.PhaseFor(40))
	assert.Equal(t, entities.PhaseExploring, progress.PhaseFor(79.9))
	assert.Equal(t, entities.PhaseReturning, progress.PhaseFor(80))
	assert.Equal(t, entities.PhaseReturning, progress.PhaseFor(99.9))
	assert.Equal(t, entities.PhaseCompleted, progress.PhaseFor(100))
}

func TestMaxDistanceGrowsWhileTraveling(t *testing.T) {
	assert.Equal(t, 0.0, progress.MaxDistance(60, 10))
	assert.InDelta(t, 30.0, progress.MaxDistance(60, 30), 1e-9)
	assert.Equal(t, 60.0, progress.MaxDistance(60, 50))
	assert.Equal(t, 0.0, progress.MaxDistance(60, 85))
}

func TestAtClampsElapsed(t *testing.T) {
	start := time.Now()
	snap := progress.At(start, time.Minute, start.Add(2*time.Minute))
	assert.Equal(t, time.Minute, snap.Elapsed)
	assert.Equal(t, entities.PhaseCompleted, snap.Phase)
}
