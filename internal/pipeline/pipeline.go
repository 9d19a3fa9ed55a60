// Package pipeline runs one source end to end: paginate, extract,
// normalize, optionally dedupe, then filter.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/williampepple1/listing-scraper/internal/scraper"
	"github.com/williampepple1/listing-scraper/internal/source"
	"github.com/williampepple1/listing-scraper/internal/trust"
	"github.com/williampepple1/listing-scraper/pkg/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("listing-scraper/pipeline")

// Result is the filtered output of one run plus its page accounting
type Result struct {
	RunID     uuid.UUID       `json:"run_id"`
	Source    string          `json:"source"`
	Query     source.Query    `json:"query"`
	Records   []models.Record `json:"records"`
	Fields    []string        `json:"fields"`
	Extracted int             `json:"extracted"`
	Pages     int             `json:"pages"`
	Failures  []PageFailure   `json:"failures,omitempty"`
}

// Failed returns the number of pages that contributed nothing due to errors
func (r *Result) Failed() int { return len(r.Failures) }

// Summary renders the page accounting, e.g. "1 of 5 pages failed"
func (r *Result) Summary() string {
	return fmt.Sprintf("%d of %d pages failed", r.Failed(), r.Pages)
}

// Pipeline holds the process-wide collaborators shared by every run. It
// carries no per-request state, so one Pipeline serves concurrent requests.
type Pipeline struct {
	Fetchers map[string]scraper.Fetcher
	Trusted  *trust.Set
	Logger   *slog.Logger
}

// New creates a pipeline. trusted may be nil when no source needs it.
func New(fetchers map[string]scraper.Fetcher, trusted *trust.Set, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Fetchers: fetchers,
		Trusted:  trusted,
		Logger:   logger,
	}
}

// Run scrapes src for q. Page failures are absorbed into Result.Failures;
// an error means the run itself could not complete.
func (p *Pipeline) Run(ctx context.Context, src *source.Source, q source.Query) (*Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline:Run")
	defer span.End()

	runID := uuid.New()
	span.SetAttributes(
		attribute.String("source", src.Name()),
		attribute.String("run_id", runID.String()),
	)

	fetcher, ok := p.Fetchers[src.Config.Backend]
	if !ok {
		err := fmt.Errorf("no fetcher for backend %q", src.Config.Backend)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing backend")
		return nil, err
	}

	paginator := NewPaginator(&PageFetcher{
		Source:  src,
		Fetcher: fetcher,
		Logger:  p.Logger,
	}, p.Logger)

	crawl, err := paginator.Run(ctx, src.Config.MaxPages, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run aborted")
		return nil, fmt.Errorf("scrape %s: %w", src.Name(), err)
	}

	normalizer := Normalizer{Fields: src.Fields(), Origin: src.Config.Origin}
	if src.Config.Trust {
		normalizer.Trusted = p.Trusted
	}
	records := normalizer.Normalize(crawl.Records)
	if src.Config.Dedupe {
		records = DedupeByURL(records)
	}
	matched := NewFilter(src.Config.Filter, q.Keyword).Apply(records)

	result := &Result{
		RunID:     runID,
		Source:    src.Name(),
		Query:     q,
		Records:   matched,
		Fields:    src.Fields(),
		Extracted: len(crawl.Records),
		Pages:     crawl.Pages,
		Failures:  crawl.Failures,
	}

	p.Logger.InfoContext(ctx, "scrape finished",
		"run", runID,
		"source", src.Name(),
		"pages", result.Pages,
		"failed", result.Failed(),
		"records", result.Extracted,
		"matched", len(result.Records),
	)
	return result, nil
}
