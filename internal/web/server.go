// Package web serves the search pages.
//
// Routes:
//
//	GET  /         → search form, or results when a title/keyword is given
//	POST /filter   → same page, query taken from the form body
//	GET  /healthz  → liveness probe
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/williampepple1/listing-scraper/internal/pipeline"
	"github.com/williampepple1/listing-scraper/internal/source"
)

// ServiceName is reported by the health endpoint
const ServiceName = "listing-scraper"

const errorPage = "Error generating the HTML page."

// Runner executes one scrape. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, src *source.Source, q source.Query) (*pipeline.Result, error)
}

// Handler holds the shared, read-only dependencies of every request
type Handler struct {
	Registry      *source.Registry
	Runner        Runner
	Presenter     *Presenter
	DefaultSource string
	// Timeout bounds each scrape; zero disables it
	Timeout time.Duration
	Version string
	Logger  *slog.Logger
}

// NewHandler returns a configured Handler
func NewHandler(registry *source.Registry, runner Runner, defaultSource string, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Registry:      registry,
		Runner:        runner,
		Presenter:     NewPresenter(),
		DefaultSource: defaultSource,
		Timeout:       timeout,
		Version:       "0.1.0",
		Logger:        logger,
	}
}

// RegisterRoutes mounts all routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleSearch)
	mux.HandleFunc("POST /filter", h.handleSearch)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Service: ServiceName,
		Version: h.Version,
	})
}

// handleSearch serves GET / and POST /filter. Query string and form body are
// both read; the body wins when a key appears in both.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.fail(ctx, w, "parse form", err)
		return
	}

	name := r.Form.Get("source")
	if name == "" {
		name = h.sourceFor(r.URL.Path)
	}
	src, err := h.Registry.Get(name)
	if err != nil {
		h.fail(ctx, w, "lookup source", err)
		return
	}

	q := source.QueryFromValues(r.Form)

	var result *pipeline.Result
	// sources that send the keyword upstream show the bare form until one is given
	if src.Config.KeywordParam == "" || q.Keyword != "" {
		if h.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.Timeout)
			defer cancel()
		}

		result, err = h.Runner.Run(ctx, src, q)
		if err != nil {
			h.fail(ctx, w, "scrape", err)
			return
		}
	}

	var buf bytes.Buffer
	if err := h.Presenter.Render(&buf, src, result); err != nil {
		h.fail(ctx, w, "render", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// sourceFor picks the source whose form posts to path, falling back to the
// default source
func (h *Handler) sourceFor(path string) string {
	if path != "/" {
		for _, name := range h.Registry.Names() {
			src, _ := h.Registry.Get(name)
			if src.Config.Form.Action == path {
				return name
			}
		}
	}
	return h.DefaultSource
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, step string, err error) {
	h.Logger.ErrorContext(ctx, "request failed", "step", step, "err", err)
	http.Error(w, errorPage, http.StatusInternalServerError)
}
