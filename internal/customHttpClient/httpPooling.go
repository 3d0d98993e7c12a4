package customHttpClient

import (
	"net/http"
	"sync"
	"time"

	"github.com/akolanti/intelliquery/internal/config"
)

var (
	transportOnce   sync.Once
	sharedTransport *http.Transport
)

// transport is shared by every provider client so the embedder and the generator reuse connections
func transport() *http.Transport {
	transportOnce.Do(func() {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxIdleConns = config.MaxIdleConns
		t.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		t.IdleConnTimeout = config.IdleConnTimeout
		sharedTransport = t
	})
	return sharedTransport
}

// NewPooledClient returns an http.Client on the shared transport. A zero timeout leaves
// deadlines to the request context.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: transport(),
		Timeout:   timeout,
	}
}
