package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sitepulse/config"
	"sitepulse/internals/modules/report"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testProber(t *testing.T, target config.TargetConfig, timeout time.Duration) *Prober {
	t.Helper()
	logger := zerolog.Nop()
	return New(target, timeout, &logger)
}

func TestIsLoginSuccessful(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		location string
		expected bool
	}{
		{"302 with no location", 302, "", true},
		{"200 with no location", 200, "", true},
		{"302 redirecting to dashboard", 302, "/dashboard", true},
		{"302 redirecting back to login still passes", 302, "/login", true},
		{"303 to dashboard", 303, "/dashboard", true},
		{"303 to home", 303, "/home", true},
		{"303 to profile", 303, "/account/profile", true},
		{"303 back to login", 303, "/login", false},
		{"401 with no location", 401, "", true},
		{"303 to login with query", 303, "/login?error=1", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := isLoginSuccessful(test.status, test.location); got != test.expected {
				t.Errorf("isLoginSuccessful(%d, %q) = %v, expected %v",
					test.status, test.location, got, test.expected)
			}
		})
	}
}

func TestSessionTokenFrom(t *testing.T) {
	tests := []struct {
		name     string
		cookies  []string
		expected string
	}{
		{"no cookies", nil, ""},
		{"single cookie with attributes", []string{"sid=abc123; Path=/; HttpOnly"}, "sid=abc123"},
		{"multiple cookies joined", []string{"sid=abc123; Path=/", "csrf=xyz; Secure"}, "sid=abc123; csrf=xyz"},
		{"bare cookie without attributes", []string{"token=v"}, "token=v"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := http.Header{}
			for _, c := range test.cookies {
				h.Add("Set-Cookie", c)
			}
			if got := sessionTokenFrom(h); got != test.expected {
				t.Errorf("sessionTokenFrom(%v) = %q, expected %q", test.cookies, got, test.expected)
			}
		})
	}
}

func TestLoginSuccessCapturesSession(t *testing.T) {
	var sawReferer atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("email") == "" || r.PostFormValue("password") == "" {
			t.Error("expected email and password form fields")
		}
		sawReferer.Store(r.Header.Get("Referer"))

		w.Header().Set("Set-Cookie", "sid=abc123; Path=/")
		w.Header().Set("Location", "/dashboard")
		w.WriteHeader(http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testProber(t, config.TargetConfig{
		BaseURL:  srv.URL,
		LoginURL: srv.URL + "/login",
		Username: "user@example.com",
		Password: "secret",
	}, 2*time.Second)

	outcome := p.Login(context.Background())

	if !outcome.Passed {
		t.Fatalf("expected login to pass, got details=%q err=%q", outcome.Details, outcome.Err)
	}
	if outcome.SessionToken != "sid=abc123" {
		t.Errorf("session token = %q, expected %q", outcome.SessionToken, "sid=abc123")
	}
	if outcome.StatusCode != http.StatusFound {
		t.Errorf("status code = %d, expected 302", outcome.StatusCode)
	}
	if ref, _ := sawReferer.Load().(string); ref != srv.URL+"/login" {
		t.Errorf("referer = %q, expected login url", ref)
	}
}

func TestLoginFormUnavailableShortCircuits(t *testing.T) {
	var posts atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testProber(t, config.TargetConfig{
		BaseURL:  srv.URL,
		LoginURL: srv.URL + "/login",
		Username: "u",
		Password: "p",
	}, 2*time.Second)

	outcome := p.Login(context.Background())

	if outcome.Passed {
		t.Fatal("expected login to fail when the form GET returns 503")
	}
	if !strings.Contains(outcome.Details, "503") {
		t.Errorf("details = %q, expected the status code in it", outcome.Details)
	}
	if posts.Load() != 0 {
		t.Errorf("credentials were posted %d times, expected none", posts.Load())
	}
}

func TestLoginRejectedStillCarriesCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Set-Cookie", "sid=rejected; Path=/")
		w.Header().Set("Location", "/login?error=bad_credentials")
		w.WriteHeader(http.StatusSeeOther)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testProber(t, config.TargetConfig{
		BaseURL:  srv.URL,
		LoginURL: srv.URL + "/login",
		Username: "u",
		Password: "wrong",
	}, 2*time.Second)

	outcome := p.Login(context.Background())

	if outcome.Passed {
		t.Fatal("303 back to login must fail the heuristic")
	}
	if outcome.Details != "Login failed - check credentials or form structure" {
		t.Errorf("details = %q", outcome.Details)
	}
	if outcome.SessionToken != "sid=rejected" {
		t.Errorf("session token = %q, expected cookies captured even on rejection", outcome.SessionToken)
	}
	if outcome.Name != report.CheckLogin {
		t.Errorf("outcome name = %q", outcome.Name)
	}
}
