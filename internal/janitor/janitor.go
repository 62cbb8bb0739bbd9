// Package janitor prunes expired form sessions on a fixed interval.
package janitor

import (
	"context"
	"log/slog"
	"time"
)

// Pruner is the store-side prune operation.
type Pruner interface {
	Prune(now time.Time) int
}

// Janitor ticks for the process lifetime; Run blocks until the
// context is cancelled.
type Janitor struct {
	interval time.Duration
	store    Pruner
}

func New(interval time.Duration, store Pruner) *Janitor {
	return &Janitor{interval: interval, store: store}
}

func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	slog.Info("form janitor started", "interval", j.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("form janitor stopping")
			return
		case <-ticker.C:
			j.tick()
		}
	}
}

func (j *Janitor) tick() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("janitor tick panic recovered", "panic", r)
		}
	}()

	if n := j.store.Prune(time.Now()); n > 0 {
		slog.Info("pruned expired form sessions", "count", n)
	}
}
