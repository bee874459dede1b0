package cycle

import (
	"context"
	"sitepulse/internals/modules/report"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeChecker struct {
	loginOutcome report.Outcome
	authCalls    atomic.Int32
	cleanupCalls atomic.Int32
	authToken    string
	block        chan struct{} // when set, Connectivity blocks until closed
	panicOnLogin bool
}

func (f *fakeChecker) Connectivity(ctx context.Context) report.Outcome {
	if f.block != nil {
		<-f.block
	}
	return report.Outcome{Name: report.CheckConnectivity, Passed: true}
}

func (f *fakeChecker) Login(ctx context.Context) report.Outcome {
	if f.panicOnLogin {
		panic("defect in login probe")
	}
	return f.loginOutcome
}

func (f *fakeChecker) AuthenticatedAccess(ctx context.Context, token string) report.Outcome {
	f.authCalls.Add(1)
	f.authToken = token
	return report.Outcome{Name: report.CheckAuthAccess, Passed: true}
}

func (f *fakeChecker) SessionCleanup(ctx context.Context, token string) report.Outcome {
	f.cleanupCalls.Add(1)
	return report.Outcome{Name: report.CheckSessionCleanup, Passed: true}
}

type fakeNotifier struct {
	dispatched   atomic.Int32
	systemErrors atomic.Int32
}

func (f *fakeNotifier) Dispatch(ctx context.Context, rep *report.CycleReport) {
	f.dispatched.Add(1)
}

func (f *fakeNotifier) DispatchSystemError(ctx context.Context, cycleErr error) {
	f.systemErrors.Add(1)
}

func newTestRunner(checker Checker, notifier Notifier) *Runner {
	logger := zerolog.Nop()
	return NewRunner(checker, notifier, nil, &logger)
}

func TestRunCycleWithSession(t *testing.T) {
	checker := &fakeChecker{
		loginOutcome: report.Outcome{
			Name:         report.CheckLogin,
			Passed:       true,
			SessionToken: "sid=abc123",
		},
	}
	notifier := &fakeNotifier{}
	r := newTestRunner(checker, notifier)

	rep, err := r.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Outcomes) != 4 {
		t.Fatalf("outcomes = %d, expected 4", len(rep.Outcomes))
	}
	if rep.OverallStatus != report.StatusPass {
		t.Errorf("overall = %s, expected PASS", rep.OverallStatus)
	}
	if checker.authCalls.Load() != 1 || checker.cleanupCalls.Load() != 1 {
		t.Error("auth access and cleanup must each run once")
	}
	if checker.authToken != "sid=abc123" {
		t.Errorf("auth probe got token %q", checker.authToken)
	}
	if notifier.dispatched.Load() != 1 {
		t.Errorf("dispatch count = %d", notifier.dispatched.Load())
	}
	if r.LastReport() != rep {
		t.Error("last report must be the finished cycle")
	}
}

func TestRunCycleWithoutSessionSkipsTail(t *testing.T) {
	checker := &fakeChecker{
		loginOutcome: report.Outcome{Name: report.CheckLogin, Passed: false},
	}
	notifier := &fakeNotifier{}
	r := newTestRunner(checker, notifier)

	rep, err := r.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if checker.authCalls.Load() != 0 || checker.cleanupCalls.Load() != 0 {
		t.Error("neither auth access nor cleanup may run without a token")
	}
	if len(rep.Outcomes) != 4 {
		t.Fatalf("outcomes = %d, expected 4 incl. skipped", len(rep.Outcomes))
	}

	for _, name := range []report.CheckName{report.CheckAuthAccess, report.CheckSessionCleanup} {
		o, ok := rep.Outcome(name)
		if !ok {
			t.Fatalf("missing outcome for %s", name)
		}
		if o.Passed || !o.Skipped || o.Details != "Skipped due to login failure" {
			t.Errorf("%s = %+v, expected a skipped failure", name, o)
		}
	}

	if rep.OverallStatus != report.StatusFail {
		t.Errorf("overall = %s, expected FAIL", rep.OverallStatus)
	}
}

func TestRunCycleFailedLoginWithCookiesStillProceeds(t *testing.T) {
	// the branch is on token presence, not on the login verdict
	checker := &fakeChecker{
		loginOutcome: report.Outcome{
			Name:         report.CheckLogin,
			Passed:       false,
			SessionToken: "sid=rejected",
		},
	}
	r := newTestRunner(checker, &fakeNotifier{})

	rep, err := r.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if checker.authCalls.Load() != 1 {
		t.Error("auth access must run when a token is present, even after a failed login")
	}
	if rep.OverallStatus != report.StatusFail {
		t.Errorf("overall = %s, expected FAIL because login failed", rep.OverallStatus)
	}
}

func TestRunCyclePanicBecomesError(t *testing.T) {
	checker := &fakeChecker{panicOnLogin: true}
	notifier := &fakeNotifier{}
	r := newTestRunner(checker, notifier)

	rep, err := r.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected the orchestration error to surface")
	}

	if rep.OverallStatus != report.StatusError {
		t.Errorf("overall = %s, expected ERROR", rep.OverallStatus)
	}
	if rep.Err == "" {
		t.Error("top-level error must be recorded on the report")
	}
	if notifier.systemErrors.Load() != 1 {
		t.Errorf("system error notifications = %d, expected 1", notifier.systemErrors.Load())
	}
	if notifier.dispatched.Load() != 0 {
		t.Error("the regular report dispatch must not happen on the error path")
	}
}

func TestTickSkipsOverlappingCycle(t *testing.T) {
	block := make(chan struct{})
	checker := &fakeChecker{
		block:        block,
		loginOutcome: report.Outcome{Name: report.CheckLogin, Passed: false},
	}
	notifier := &fakeNotifier{}
	r := newTestRunner(checker, notifier)

	done := make(chan struct{})
	go func() {
		r.Tick(context.Background())
		close(done)
	}()

	// wait until the first tick holds the run flag
	for !r.running.Load() {
		time.Sleep(time.Millisecond)
	}

	r.Tick(context.Background()) // must return immediately without a second cycle

	close(block)
	<-done

	if got := notifier.dispatched.Load(); got != 1 {
		t.Errorf("dispatched cycles = %d, expected the overlapping tick to be skipped", got)
	}
}
