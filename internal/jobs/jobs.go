// Package jobs runs background work on cron schedules, outside request handling.
//
// Jobs log their failures and never stop the scheduler; the next tick simply tries again.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		timeout: 2 * time.Minute,
	}
}

// Schedule registers job under a cron spec. An empty spec leaves the job disabled.
func (s *Scheduler) Schedule(spec string, job Job) error {
	if spec == "" {
		s.logger.Info("job disabled", zap.String("job", job.Name()))
		return nil
	}

	if _, err := s.cron.AddFunc(spec, func() { s.runOnce(job) }); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}
	s.logger.Info("job scheduled", zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("job failed", zap.String("job", job.Name()), zap.Error(err))
		return
	}
	s.logger.Debug("job finished", zap.String("job", job.Name()), zap.Duration("took", time.Since(start)))
}
