// Package drivers runs the periodic sweeps that keep expeditions moving
// without a client asking: progress checks, survival-stat decay and the
// deferred archival of finished records.
package drivers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/expedition-api/internal/errors"
)

// Task is one sweep a driver repeats
type Task interface {
	// Name identifies the task in logs and in Group.Stop
	Name() string

	// Sweep processes one pass. Failures on single records are logged by the
	// task itself; a returned error means the pass could not run at all.
	Sweep(ctx context.Context) error
}

// Loop repeats a task on a fixed interval until its context ends or Stop is called
type Loop struct {
	task     Task
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLoop creates a loop for the task
func NewLoop(task Task, interval time.Duration) (*Loop, error) {
	if task == nil {
		return nil, errors.InvalidArgument("task is required")
	}
	if interval <= 0 {
		return nil, errors.InvalidArgumentf("interval for %s must be positive", task.Name())
	}
	return &Loop{
		task:     task,
		interval: interval,
		stop:     make(chan struct{}),
	}, nil
}

// Name returns the task name
func (l *Loop) Name() string {
	return l.task.Name()
}

// Run sweeps once immediately, then on every tick. It returns nil when
// stopped or when ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "driver started",
		"driver", l.task.Name(),
		"interval", l.interval.String())
	defer slog.InfoContext(ctx, "driver stopped", "driver", l.task.Name())

	l.sweep(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.stop:
			return nil
		case <-ticker.C:
			l.sweep(ctx)
		}
	}
}

func (l *Loop) sweep(ctx context.Context) {
	started := time.Now()
	if err := l.task.Sweep(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.ErrorContext(ctx, "driver sweep failed",
			"driver", l.task.Name(),
			"error", err)
		return
	}
	slog.DebugContext(ctx, "driver sweep finished",
		"driver", l.task.Name(),
		"took", time.Since(started).String())
}

// Stop ends the loop; safe to call more than once
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Group runs a set of loops together
type Group struct {
	loops map[string]*Loop
	order []string
}

// NewGroup creates a group; loop names must be unique
func NewGroup(loops ...*Loop) (*Group, error) {
	g := &Group{loops: make(map[string]*Loop, len(loops))}
	for _, l := range loops {
		if l == nil {
			continue
		}
		if _, dup := g.loops[l.Name()]; dup {
			return nil, errors.AlreadyExistsf("driver %s registered twice", l.Name())
		}
		g.loops[l.Name()] = l
		g.order = append(g.order, l.Name())
	}
	return g, nil
}

// Names returns the loop names in registration order
func (g *Group) Names() []string {
	return append([]string(nil), g.order...)
}

// Run blocks until every loop has returned
func (g *Group) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, name := range g.order {
		l := g.loops[name]
		eg.Go(func() error {
			return l.Run(ctx)
		})
	}
	return eg.Wait()
}

// Stop ends one loop and leaves the others running
func (g *Group) Stop(name string) error {
	l, ok := g.loops[name]
	if !ok {
		return errors.NotFoundf("driver %s not found", name)
	}
	l.Stop()
	return nil
}

// StopAll ends every loop
func (g *Group) StopAll() {
	for _, l := range g.loops {
		l.Stop()
	}
}
