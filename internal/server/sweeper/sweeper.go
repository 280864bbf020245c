// Package sweeper runs the periodic cleanup of expired secret messages.
package sweeper

import (
	"context"
	"time"

	"github.com/secretspace/secretspace/internal/logging"
)

// Cleaner deletes expired messages and reports how many went away.
type Cleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Sweeper deletes expired messages on a fixed interval. Each tick is a single
// conditional delete, so overlapping or repeated runs are harmless.
type Sweeper struct {
	cleaner  Cleaner
	interval time.Duration
	logger   logging.Logger
}

func New(cleaner Cleaner, interval time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{cleaner: cleaner, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, sweeping once per interval. A failed
// sweep is logged and the next tick proceeds normally.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.cleaner.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error(ctx, "sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info(ctx, "expired messages deleted", "count", n)
	}
}
