package notify

import (
	"context"
	"sitepulse/config"
	"sitepulse/internals/modules/report"

	"github.com/rs/zerolog"
)

// Channel is one delivery target for cycle reports. Channels fail
// independently: an error from one never stops the others.
type Channel interface {
	Name() string
	Send(ctx context.Context, rep *report.CycleReport) error
	SendSystemError(ctx context.Context, cycleErr error) error
}

type Service struct {
	channels []Channel
	logger   *zerolog.Logger
}

// NewService wires up whichever channels the config enables. No channel at
// all is fine, the console rendering always happens.
func NewService(cfg *config.Config, logger *zerolog.Logger) *Service {
	s := &Service{logger: logger}

	if cfg.Email.Enabled() {
		s.channels = append(s.channels, NewEmailChannel(cfg.Email, logger))
	}
	if cfg.Chat.Enabled() {
		s.channels = append(s.channels, NewChatChannel(cfg.Chat, logger))
	}

	return s
}

// Dispatch renders the report to the log and pushes it through every
// configured channel, waiting each one out so dispatch errors are logged
// against this cycle.
func (s *Service) Dispatch(ctx context.Context, rep *report.CycleReport) {
	s.logReport(rep)

	for _, ch := range s.channels {
		if err := ch.Send(ctx, rep); err != nil {
			s.logger.Error().
				Str("channel", ch.Name()).
				Str("cycle_id", rep.ID.String()).
				Err(err).
				Msg("notification dispatch failed")
		}
	}
}

// DispatchSystemError sends the orchestration-failure variant of the
// notification, used when the cycle itself blew up rather than a probe.
func (s *Service) DispatchSystemError(ctx context.Context, cycleErr error) {
	s.logger.Error().Err(cycleErr).Msg("dispatching system error notification")

	for _, ch := range s.channels {
		if err := ch.SendSystemError(ctx, cycleErr); err != nil {
			s.logger.Error().
				Str("channel", ch.Name()).
				Err(err).
				Msg("system error notification failed")
		}
	}
}
