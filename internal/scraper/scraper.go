package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/williampepple1/listing-scraper/internal/config"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("listing-scraper/scraper")

// ErrStatus is returned when a source answers with a non-2xx status
var ErrStatus = errors.New("unexpected status")

// Request describes one page retrieval
type Request struct {
	URL string
	// WaitFor is a CSS selector the browser backend waits for before
	// capturing the DOM. The HTTP backend ignores it.
	WaitFor string
}

// Fetcher retrieves the raw body of one page
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// New creates the fetcher for a backend name
func New(cfg *config.AppConfig, backend string) (Fetcher, error) {
	switch backend {
	case config.BackendHTTP:
		return NewHTTPFetcher(cfg), nil
	case config.BackendBrowser:
		return NewBrowserFetcher(cfg), nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// NewAll creates one fetcher per backend
func NewAll(cfg *config.AppConfig) map[string]Fetcher {
	return map[string]Fetcher{
		config.BackendHTTP:    NewHTTPFetcher(cfg),
		config.BackendBrowser: NewBrowserFetcher(cfg),
	}
}
