package probe

import (
	"context"
	"net/http"
	"sitepulse/internals/modules/report"
	"strings"
	"time"
)

// AuthenticatedAccess fetches the protected page with the captured session
// token. Redirects are followed here on purpose: a session the site rejects
// usually lands back on the login page with a 200, so the final url is part
// of the verdict and is carried in the outcome either way.
func (p *Prober) AuthenticatedAccess(ctx context.Context, sessionToken string) report.Outcome {
	outcome := report.Outcome{
		Name:      report.CheckAuthAccess,
		TestedURL: p.target.ProtectedURL,
	}

	if sessionToken == "" {
		outcome.Details = "No session cookie available from login"
		return outcome
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	req, err := p.newRequest(reqCtx, http.MethodGet, p.target.ProtectedURL, nil)
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}
	req.Header.Set("Cookie", sessionToken)

	resp, err := p.client.Do(req)
	outcome.ResponseTime = time.Since(start)
	if err != nil {
		outcome.Err = errString(err)
		return outcome
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()

	outcome.StatusCode = resp.StatusCode
	outcome.FinalURL = finalURL
	outcome.Passed = is2xx(resp.StatusCode) && !strings.Contains(finalURL, "login")

	switch {
	case outcome.Passed:
		outcome.Details = "Protected page accessible with session"
	case strings.Contains(finalURL, "login"):
		outcome.Details = "Redirected back to login - session not accepted"
	default:
		outcome.Details = httpDetail(resp.StatusCode)
	}

	return outcome
}
