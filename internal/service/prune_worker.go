package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// PruneWorker runs the orphan pruning pass on a cron schedule
type PruneWorker struct {
	pruner   *PruneService
	logger   zerolog.Logger
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewPruneWorker creates a worker for a standard five-field cron schedule evaluated in loc
func NewPruneWorker(pruner *PruneService, logger zerolog.Logger, schedule string, loc *time.Location) (*PruneWorker, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	return &PruneWorker{
		pruner:   pruner,
		logger:   logger.With().Str("component", "prune_worker").Logger(),
		schedule: schedule,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}, nil
}

// Start registers the job and starts the scheduler. Calling it twice is a no-op.
func (w *PruneWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if len(w.cron.Entries()) == 0 {
		if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
			return fmt.Errorf("schedule prune job: %w", err)
		}
	}

	w.logger.Info().Str("schedule", w.schedule).Msg("Starting prune worker")
	w.cron.Start()
	w.running = true
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish
func (w *PruneWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping prune worker")
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("Prune worker stopped")
}

// RunOnce performs a single pruning pass and logs its outcome
func (w *PruneWorker) RunOnce(ctx context.Context) *PruneResult {
	startTime := time.Now()

	result, err := w.pruner.Prune(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Prune pass failed")
		return result
	}

	for _, e := range result.Errors {
		w.logger.Warn().Err(e).Msg("Failed to prune month")
	}

	w.logger.Info().
		Int("periods", result.PeriodsScanned).
		Int("budget_removed", result.BudgetRemoved).
		Int("expenses_removed", result.ExpensesRemoved).
		Int("errors", len(result.Errors)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed prune pass")
	return result
}

// IsRunning returns whether the scheduler is running
func (w *PruneWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
