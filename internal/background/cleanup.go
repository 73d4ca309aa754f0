package background

import (
	"context"
	"log/slog"
	"time"
)

// pruner removes records received before the cutoff.
type pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically prunes webhook audit records older than the retention
// window. Failures are logged and the loop keeps running; the sweep never
// affects request serving.
type Sweeper struct {
	store     pruner
	log       *slog.Logger
	interval  time.Duration
	retention time.Duration
}

func NewSweeper(store pruner, log *slog.Logger, interval, retention time.Duration) *Sweeper {
	return &Sweeper{store: store, log: log, interval: interval, retention: retention}
}

// Run blocks until ctx is canceled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("cleanup sweeper starting",
		"interval", s.interval.String(), "retention", s.retention.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("cleanup sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	count, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("cleanup sweep failed", "error", err)
		return
	}
	s.log.Info("cleanup sweep complete", "deleted", count)
}
