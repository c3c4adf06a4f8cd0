// Package sweeper periodically marks deals past their expiration date as
// unavailable, so the catalog never has to filter on dates at query time.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mkalykov/startup-benefits/internal/metrics"
	"github.com/mkalykov/startup-benefits/internal/repository"
)

type Sweeper struct {
	deals    repository.DealRepository
	schedule cron.Schedule
	logger   *slog.Logger
}

// New builds a sweeper from a standard cron spec (descriptors like "@hourly"
// are accepted).
func New(deals repository.DealRepository, spec string, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", spec, err)
	}
	return &Sweeper{
		deals:    deals,
		schedule: schedule,
		logger:   logger.With("component", "sweeper"),
	}, nil
}

// Start sweeps on the configured schedule until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass. Also called once at startup so a restarted
// service does not wait a full period to catch up.
func (s *Sweeper) Sweep(ctx context.Context) {
	n, err := s.deals.MarkExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("mark expired deals", "error", err)
		return
	}
	if n > 0 {
		metrics.DealsExpiredTotal.Add(float64(n))
		s.logger.Info("expired deals swept", "count", n)
	}
}
