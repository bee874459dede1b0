package cycle

import (
	"context"
	"sitepulse/internals/modules/report"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewSchedulerRejectsBadExpression(t *testing.T) {
	logger := zerolog.Nop()
	r := newTestRunner(&fakeChecker{
		loginOutcome: report.Outcome{Name: report.CheckLogin},
	}, &fakeNotifier{})

	if _, err := NewScheduler(context.Background(), r, "not a cron expr", &logger); err == nil {
		t.Error("expected an invalid schedule to be rejected at startup")
	}

	s, err := NewScheduler(context.Background(), r, "0 */4 * * *", &logger)
	if err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
	<-s.Stop().Done()
}
