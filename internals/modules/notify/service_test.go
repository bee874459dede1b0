package notify

import (
	"context"
	"errors"
	"sitepulse/config"
	"sitepulse/internals/modules/report"
	"testing"

	"github.com/rs/zerolog"
)

type stubChannel struct {
	name    string
	err     error
	sent    int
	sysSent int
	lastRep *report.CycleReport
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(ctx context.Context, rep *report.CycleReport) error {
	s.sent++
	s.lastRep = rep
	return s.err
}

func (s *stubChannel) SendSystemError(ctx context.Context, cycleErr error) error {
	s.sysSent++
	return s.err
}

func TestDispatchIsolatesChannelFailures(t *testing.T) {
	logger := zerolog.Nop()
	broken := &stubChannel{name: "broken", err: errors.New("smtp down")}
	healthy := &stubChannel{name: "healthy"}

	s := &Service{channels: []Channel{broken, healthy}, logger: &logger}

	rep := sampleReport(report.StatusFail)
	s.Dispatch(context.Background(), rep)

	if broken.sent != 1 || healthy.sent != 1 {
		t.Errorf("sends = %d/%d, a failing channel must not stop the others", broken.sent, healthy.sent)
	}
	if healthy.lastRep != rep {
		t.Error("channel received the wrong report")
	}
}

func TestDispatchSystemErrorReachesAllChannels(t *testing.T) {
	logger := zerolog.Nop()
	a := &stubChannel{name: "a", err: errors.New("boom")}
	b := &stubChannel{name: "b"}

	s := &Service{channels: []Channel{a, b}, logger: &logger}
	s.DispatchSystemError(context.Background(), errors.New("cycle panicked"))

	if a.sysSent != 1 || b.sysSent != 1 {
		t.Errorf("system error sends = %d/%d", a.sysSent, b.sysSent)
	}
}

func TestNewServiceChannelSelection(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name     string
		cfg      *config.Config
		expected int
	}{
		{"no channels", &config.Config{}, 0},
		{"email only", &config.Config{
			Email: &config.EmailConfig{Host: "smtp.example.com", Recipients: []string{"ops@example.com"}},
		}, 1},
		{"chat only", &config.Config{
			Chat: &config.ChatConfig{WebhookURL: "https://chat.example.com/hooks/x"},
		}, 1},
		{"both", &config.Config{
			Email: &config.EmailConfig{Host: "smtp.example.com", Recipients: []string{"ops@example.com"}},
			Chat:  &config.ChatConfig{WebhookURL: "https://chat.example.com/hooks/x"},
		}, 2},
		{"email config present but empty", &config.Config{Email: &config.EmailConfig{}}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewService(test.cfg, &logger)
			if len(s.channels) != test.expected {
				t.Errorf("channels = %d, expected %d", len(s.channels), test.expected)
			}
		})
	}
}
