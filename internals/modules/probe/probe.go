package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sitepulse/config"
	"sitepulse/pkg/httpclient"
	"time"

	"github.com/rs/zerolog"
)

const (
	userAgent    = "SitePulse-Monitor/1.0"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Prober runs the individual site checks. Every check returns an outcome,
// never an error: transport failures are folded into the outcome so one bad
// probe cannot abort the cycle.
type Prober struct {
	target    config.TargetConfig
	timeout   time.Duration
	client    *http.Client // follows redirects
	rawClient *http.Client // surfaces redirects, for the login POST
	logger    *zerolog.Logger
}

func New(target config.TargetConfig, timeout time.Duration, logger *zerolog.Logger) *Prober {
	return &Prober{
		target:    target,
		timeout:   timeout,
		client:    httpclient.NewHttpClient(),
		rawClient: httpclient.NewNoRedirectClient(),
		logger:    logger,
	}
}

func (p *Prober) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	return req, nil
}

// classifyError maps a transport error to a stable reason tag. Timeouts get
// their own tag so a slow site reads differently than an unreachable one.
func classifyError(err error) string {

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS_FAILURE"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "NETWORK_TIMEOUT"
		}
		return "NETWORK_ERROR"
	}

	return "UNKNOWN_ERROR"
}

func errString(err error) string {
	return fmt.Sprintf("%s: %v", classifyError(err), err)
}

func is2xx(status int) bool {
	return status >= 200 && status <= 299
}

func httpDetail(status int) string {
	return fmt.Sprintf("HTTP %d - %s", status, http.StatusText(status))
}
