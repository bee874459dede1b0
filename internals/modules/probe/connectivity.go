package probe

import (
	"context"
	"net/http"
	"sitepulse/internals/modules/report"
	"time"
)

// Connectivity issues one timed GET against the base url. Pass means any 2xx.
func (p *Prober) Connectivity(ctx context.Context) report.Outcome {
	outcome := report.Outcome{Name: report.CheckConnectivity}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	req, err := p.newRequest(reqCtx, http.MethodGet, p.target.BaseURL, nil)
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}

	resp, err := p.client.Do(req)
	outcome.ResponseTime = time.Since(start)
	if err != nil {
		outcome.Err = errString(err)
		p.logger.Warn().Str("check", string(outcome.Name)).Str("err", outcome.Err).Msg("connectivity check failed")
		return outcome
	}
	defer resp.Body.Close()

	outcome.StatusCode = resp.StatusCode
	outcome.Passed = is2xx(resp.StatusCode)

	if outcome.Passed {
		outcome.Details = "Website is accessible"
	} else {
		outcome.Details = httpDetail(resp.StatusCode)
	}

	return outcome
}
