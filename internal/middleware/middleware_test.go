package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"golang.org/x/time/rate"
)

func withAuth(t *testing.T, token string, bypass bool) {
	t.Helper()
	prevToken, prevBypass, prevLimiter := config.AuthToken, config.NoAuthBypass, limiterInstance
	config.AuthToken, config.NoAuthBypass = token, bypass
	limiterInstance = NewIPRateLimiter(rate.Inf, 1)
	t.Cleanup(func() {
		config.AuthToken, config.NoAuthBypass, limiterInstance = prevToken, prevBypass, prevLimiter
	})
}

func TestWrap_Authentication(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		bypass   bool
		header   string
		wantCode int
	}{
		{"valid token", "secret", false, "Bearer secret", http.StatusOK},
		{"wrong token", "secret", false, "Bearer nope", http.StatusUnauthorized},
		{"missing bearer prefix", "secret", false, "secret", http.StatusUnauthorized},
		{"empty header", "secret", false, "", http.StatusUnauthorized},
		{"no token configured", "", false, "Bearer ", http.StatusUnauthorized},
		{"bypass", "secret", true, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withAuth(t, tt.token, tt.bypass)
			called := false
			h := Wrap(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/document/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if called != (tt.wantCode == http.StatusOK) {
				t.Errorf("next called=%v for status %d", called, rec.Code)
			}
		})
	}
}

func TestWrap_TraceInjection(t *testing.T) {
	withAuth(t, "secret", false)

	var seen string
	h := Wrap(func(w http.ResponseWriter, r *http.Request) {
		seen = logger_i.TraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set(traceHeader, "trace-123")
	rec := httptest.NewRecorder()
	h(rec, req)
	if seen != "trace-123" || rec.Header().Get(traceHeader) != "trace-123" {
		t.Errorf("incoming trace id not propagated: ctx=%q header=%q", seen, rec.Header().Get(traceHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	h(httptest.NewRecorder(), req)
	if len(seen) != 36 {
		t.Errorf("expected a generated uuid trace id, got %q", seen)
	}
}

func TestWrapPublic_SkipsAuth(t *testing.T) {
	withAuth(t, "secret", false)
	h := WrapPublic(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("public route should not require auth, got %d", rec.Code)
	}
}

func TestWrap_RateLimit(t *testing.T) {
	withAuth(t, "", true)
	limiterInstance = NewIPRateLimiter(rate.Limit(0.001), 2)

	h := Wrap(func(w http.ResponseWriter, r *http.Request) {})
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected burst of 2 then 429, got %v", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("buckets are per IP, got %d for a fresh IP", rec.Code)
	}
}

func TestIPRateLimiter_ReusesBucket(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	if l.GetLimiter("a") != l.GetLimiter("a") {
		t.Error("same IP must share one limiter")
	}
	l.GetLimiter("b")
	if l.Len() != 2 {
		t.Errorf("expected 2 tracked IPs, got %d", l.Len())
	}
}
