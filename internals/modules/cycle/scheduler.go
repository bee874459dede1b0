package cycle

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler fires the runner on a cron expression.
type Scheduler struct {
	cron   *cron.Cron
	logger *zerolog.Logger
}

func NewScheduler(ctx context.Context, runner *Runner, schedule string, logger *zerolog.Logger) (*Scheduler, error) {
	c := cron.New()

	if _, err := c.AddFunc(schedule, func() {
		runner.Tick(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	return &Scheduler{
		cron:   c,
		logger: logger,
	}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info().Msg("scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done once any running
// jobs have completed.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info().Msg("scheduler stopping")
	return s.cron.Stop()
}
