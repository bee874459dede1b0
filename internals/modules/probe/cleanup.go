package probe

import (
	"context"
	"fmt"
	"net/http"
	"sitepulse/internals/modules/report"
	"time"
)

// SessionCleanup posts to the logout url with the session token. The
// outcome always passes: sessions expire naturally, so a failed logout is
// diagnostic noise, not an outage. Details record what actually happened.
func (p *Prober) SessionCleanup(ctx context.Context, sessionToken string) report.Outcome {
	outcome := report.Outcome{
		Name:   report.CheckSessionCleanup,
		Passed: true,
	}

	if sessionToken == "" {
		outcome.Details = "No session to clean up"
		return outcome
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	req, err := p.newRequest(reqCtx, http.MethodPost, p.target.LogoutURL, nil)
	if err != nil {
		outcome.Err = err.Error()
		outcome.Details = "Logout request could not be built"
		return outcome
	}
	req.Header.Set("Cookie", sessionToken)

	resp, err := p.rawClient.Do(req)
	outcome.ResponseTime = time.Since(start)
	if err != nil {
		outcome.Err = errString(err)
		outcome.Details = "Logout call failed"
		return outcome
	}
	defer resp.Body.Close()

	outcome.StatusCode = resp.StatusCode
	if is2xx(resp.StatusCode) || resp.StatusCode == http.StatusFound {
		outcome.Details = "Session closed"
	} else {
		outcome.Details = fmt.Sprintf("Logout returned HTTP %d", resp.StatusCode)
	}

	return outcome
}
