package backfill

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives the worker on a fixed interval.
type Scheduler struct {
	cron          *cron.Cron
	worker        *Worker
	intervalHours int
	logger        *zap.Logger
}

func NewScheduler(worker *Worker, intervalHours int, logger *zap.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 12
	}
	return &Scheduler{
		cron:          cron.New(),
		worker:        worker,
		intervalHours: intervalHours,
		logger:        logger,
	}
}

// Start registers the batch job and starts the cron loop. Runs are skipped
// rather than queued if a previous run overlaps the interval.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %dh", s.intervalHours)
	_, err := s.cron.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		if _, err := s.worker.Run(context.Background()); err != nil {
			s.logger.Error("Backfill run failed", zap.Error(err))
		}
	})))
	if err != nil {
		return fmt.Errorf("failed to schedule backfill: %w", err)
	}
	s.cron.Start()
	s.logger.Info("Backfill scheduler started", zap.String("interval", spec))
	return nil
}

// Stop halts scheduling and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Backfill scheduler stopped")
}
