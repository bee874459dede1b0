package report

import (
	"time"

	"github.com/google/uuid"
)

// CheckName identifies one probe inside a cycle.
type CheckName string

const (
	CheckConnectivity   CheckName = "connectivity"
	CheckLogin          CheckName = "login"
	CheckAuthAccess     CheckName = "authenticated_access"
	CheckSessionCleanup CheckName = "session_cleanup"
)

// Title returns the human readable name used in reports
func (c CheckName) Title() string {
	switch c {
	case CheckConnectivity:
		return "Connectivity"
	case CheckLogin:
		return "Login"
	case CheckAuthAccess:
		return "Authenticated Access"
	case CheckSessionCleanup:
		return "Session Cleanup"
	default:
		return string(c)
	}
}

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusError   Status = "ERROR"
	StatusUnknown Status = "UNKNOWN"
)

// Outcome is the immutable result of one probe. Optional fields stay at
// their zero value for probes they dont apply to.
type Outcome struct {
	Name         CheckName     `json:"name"`
	Passed       bool          `json:"passed"`
	Skipped      bool          `json:"skipped,omitempty"`
	StatusCode   int           `json:"status_code,omitempty"`
	ResponseTime time.Duration `json:"response_time,omitempty"`
	Err          string        `json:"error,omitempty"`
	Details      string        `json:"details,omitempty"`
	SessionToken string        `json:"-"` // login only, never serialized
	TestedURL    string        `json:"tested_url,omitempty"`
	FinalURL     string        `json:"final_url,omitempty"`
}

// Skip builds the synthetic outcome recorded when a probe never ran.
func Skip(name CheckName) Outcome {
	return Outcome{
		Name:    name,
		Passed:  false,
		Skipped: true,
		Details: "Skipped due to login failure",
	}
}

// CycleReport aggregates the outcomes of one monitoring cycle. It is built
// up during the cycle and must not be mutated once handed to the notifier.
type CycleReport struct {
	ID            uuid.UUID `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Outcomes      []Outcome `json:"outcomes"`
	OverallStatus Status    `json:"overall_status"`
	Err           string    `json:"error,omitempty"`
}

func NewCycleReport() *CycleReport {
	return &CycleReport{
		ID:            uuid.New(),
		Timestamp:     time.Now(),
		OverallStatus: StatusUnknown,
	}
}

func (r *CycleReport) Append(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Aggregate computes the overall status. Session cleanup is deliberately
// excluded: sessions expire on their own, a failed logout is not an outage.
func (r *CycleReport) Aggregate() {
	if len(r.Outcomes) == 0 {
		r.OverallStatus = StatusUnknown
		return
	}

	for _, o := range r.Outcomes {
		if o.Name == CheckSessionCleanup {
			continue
		}
		if !o.Passed {
			r.OverallStatus = StatusFail
			return
		}
	}
	r.OverallStatus = StatusPass
}

// FailureCount counts failed outcomes, cleanup excluded.
func (r *CycleReport) FailureCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Name == CheckSessionCleanup {
			continue
		}
		if !o.Passed {
			n++
		}
	}
	return n
}

// Outcome returns the outcome for a given check, if present.
func (r *CycleReport) Outcome(name CheckName) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}
