package cycle

import (
	"context"
	"fmt"
	"sitepulse/internals/modules/report"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Checker runs the individual probes. Satisfied by probe.Prober.
type Checker interface {
	Connectivity(ctx context.Context) report.Outcome
	Login(ctx context.Context) report.Outcome
	AuthenticatedAccess(ctx context.Context, sessionToken string) report.Outcome
	SessionCleanup(ctx context.Context, sessionToken string) report.Outcome
}

// Notifier receives the finished report. Dispatch must observe every
// channel's completion before returning so failures land on the right cycle.
type Notifier interface {
	Dispatch(ctx context.Context, rep *report.CycleReport)
	DispatchSystemError(ctx context.Context, cycleErr error)
}

// HistoryStore persists finished cycles. Optional, nil when not configured.
type HistoryStore interface {
	SaveCycle(ctx context.Context, rep *report.CycleReport) error
}

type Runner struct {
	checker  Checker
	notifier Notifier
	history  HistoryStore
	logger   *zerolog.Logger

	running atomic.Bool // overlap guard, a tick that finds a cycle in flight is skipped
	last    atomic.Pointer[report.CycleReport]
}

func NewRunner(checker Checker, notifier Notifier, history HistoryStore, logger *zerolog.Logger) *Runner {
	return &Runner{
		checker:  checker,
		notifier: notifier,
		history:  history,
		logger:   logger,
	}
}

// RunCycle executes the fixed probe sequence and hands the report to the
// notifier. Probe failures are ordinary outcomes; only a defect escaping a
// probe (a panic) makes the cycle itself error, and that is returned to the
// caller after the system-error notification went out.
func (r *Runner) RunCycle(ctx context.Context) (rep *report.CycleReport, err error) {
	rep = report.NewCycleReport()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("monitoring cycle panicked: %v", rec)
			rep.OverallStatus = report.StatusError
			rep.Err = err.Error()

			r.logger.Error().
				Str("cycle_id", rep.ID.String()).
				Err(err).
				Msg("monitoring cycle aborted")

			r.last.Store(rep)
			r.notifier.DispatchSystemError(ctx, err)
		}
	}()

	r.logger.Info().Str("cycle_id", rep.ID.String()).Msg("monitoring cycle started")

	rep.Append(r.checker.Connectivity(ctx))

	login := r.checker.Login(ctx)
	rep.Append(login)

	// Branch on token presence, not on the login verdict: a logically failed
	// login can still have set cookies worth exercising downstream.
	if login.SessionToken != "" {
		rep.Append(r.checker.AuthenticatedAccess(ctx, login.SessionToken))
		rep.Append(r.checker.SessionCleanup(ctx, login.SessionToken))
	} else {
		rep.Append(report.Skip(report.CheckAuthAccess))
		rep.Append(report.Skip(report.CheckSessionCleanup))
	}

	rep.Aggregate()
	r.last.Store(rep)

	r.notifier.Dispatch(ctx, rep)

	if r.history != nil {
		if err := r.history.SaveCycle(ctx, rep); err != nil {
			// same isolation rule as notification channels: log, never escalate
			r.logger.Error().Str("cycle_id", rep.ID.String()).Err(err).Msg("failed to persist cycle")
		}
	}

	r.logger.Info().
		Str("cycle_id", rep.ID.String()).
		Str("status", string(rep.OverallStatus)).
		Msg("monitoring cycle finished")

	return rep, nil
}

// Tick is the scheduler entrypoint. An overlapping tick is skipped rather
// than stacked behind the running cycle.
func (r *Runner) Tick(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn().Msg("previous cycle still running, skipping tick")
		return
	}
	defer r.running.Store(false)

	if _, err := r.RunCycle(ctx); err != nil {
		r.logger.Error().Err(err).Msg("scheduled cycle errored")
	}
}

// LastReport returns the most recent report, nil before the first cycle.
func (r *Runner) LastReport() *report.CycleReport {
	return r.last.Load()
}
