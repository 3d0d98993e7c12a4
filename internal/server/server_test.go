package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/go-chi/chi/v5"
)

func TestRoutes(t *testing.T) {
	prevToken, prevBypass := config.AuthToken, config.NoAuthBypass
	config.AuthToken, config.NoAuthBypass = "secret", false
	t.Cleanup(func() { config.AuthToken, config.NoAuthBypass = prevToken, prevBypass })

	mcpCalled := false
	r := chi.NewRouter()
	Routes(r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mcpCalled = true
	}))

	tests := []struct {
		method, path string
		auth         bool
		wantCode     int
	}{
		{http.MethodGet, "/health", false, http.StatusOK},
		{http.MethodPost, "/query", false, http.StatusUnauthorized},
		{http.MethodPost, "/upload-document", false, http.StatusUnauthorized},
		{http.MethodGet, "/document/abc", false, http.StatusUnauthorized},
		{http.MethodDelete, "/document/abc", false, http.StatusUnauthorized},
		{http.MethodGet, "/status/abc", false, http.StatusUnauthorized},
		{http.MethodPost, "/mcp", false, http.StatusUnauthorized},
		{http.MethodPost, "/mcp", true, http.StatusOK},
		{http.MethodGet, "/chat", false, http.StatusNotFound},
	}
	for i, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		// one client address per case keeps the per-IP limiter out of the way
		req.RemoteAddr = fmt.Sprintf("10.1.0.%d:4000", i+1)
		if tt.auth {
			req.Header.Set("Authorization", "Bearer secret")
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.wantCode {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.wantCode, rec.Code)
		}
	}
	if !mcpCalled {
		t.Error("authorised /mcp request never reached the MCP handler")
	}
}
