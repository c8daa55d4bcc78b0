// Package janitor periodically clears abandoned workspace directories.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/robfig/cron/v3"
)

type Sweeper interface {
	Sweep(olderThan time.Duration) (int, error)
}

type Janitor struct {
	cron    *cron.Cron
	sweeper Sweeper
	maxAge  time.Duration
	logger  logging.Logger
}

// New registers the sweep on schedule (standard cron spec or @every).
func New(sweeper Sweeper, schedule string, maxAge time.Duration, logger logging.Logger) (*Janitor, error) {
	j := &Janitor{
		cron:    cron.New(),
		sweeper: sweeper,
		maxAge:  maxAge,
		logger:  logger.With("module", "janitor"),
	}
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return nil, fmt.Errorf("janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// RunOnce performs a single sweep.
func (j *Janitor) RunOnce() {
	ctx := context.Background()
	n, err := j.sweeper.Sweep(j.maxAge)
	if err != nil {
		j.logger.Warn(ctx, "workspace sweep failed", "removed", n, "error", err)
		return
	}
	if n > 0 {
		j.logger.Info(ctx, "workspace sweep", "removed", n)
	}
}

// Start sweeps immediately and then on schedule.
func (j *Janitor) Start() {
	j.RunOnce()
	j.cron.Start()
}

// Stop halts the schedule; the returned context is done once a running sweep
// has finished.
func (j *Janitor) Stop() context.Context {
	return j.cron.Stop()
}
