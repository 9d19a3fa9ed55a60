package pipeline

import (
	"context"
	"log/slog"

	"github.com/williampepple1/listing-scraper/internal/source"
	"github.com/williampepple1/listing-scraper/pkg/models"
	"golang.org/x/time/rate"
)

// PageFailure describes one page that contributed no records
type PageFailure struct {
	Page   int    `json:"page"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Crawl is the concatenated output of a paginated run
type Crawl struct {
	Records  []models.Record
	Pages    int
	Failures []PageFailure
}

// Paginator drives a PageFetcher over pages 1..N, one page at a time
type Paginator struct {
	Fetcher *PageFetcher
	// Limiter paces page requests; nil means no delay
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// NewPaginator creates a paginator for the fetcher's source
func NewPaginator(fetcher *PageFetcher, logger *slog.Logger) *Paginator {
	p := &Paginator{Fetcher: fetcher, Logger: logger}
	if d := fetcher.Source.Config.RateLimit; d > 0 {
		p.Limiter = rate.NewLimiter(rate.Every(d), 1)
	}
	return p
}

// Run fetches up to totalPages pages in increasing order. It stops early when
// a page yields no items, when a JSON source reports its last page, or when
// q.Limit records have been collected. Failed pages are recorded and skipped.
// The only error returned is the context's.
func (p *Paginator) Run(ctx context.Context, totalPages int, q source.Query) (Crawl, error) {
	crawl := Crawl{Records: []models.Record{}}
	src := p.Fetcher.Source

	for index := 1; index <= totalPages; index++ {
		if err := ctx.Err(); err != nil {
			return crawl, err
		}
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return crawl, err
			}
		}

		page := p.Fetcher.Fetch(ctx, index, q)
		crawl.Pages++
		if page.Failed() {
			if err := ctx.Err(); err != nil {
				return crawl, err
			}
			crawl.Failures = append(crawl.Failures, PageFailure{
				Page:   index,
				URL:    page.URL,
				Reason: page.Err.Error(),
			})
			continue
		}

		b := extract(src, page)
		crawl.Records = append(crawl.Records, b.records...)
		p.Logger.DebugContext(ctx, "page fetched",
			"source", src.Name(), "page", index, "records", len(b.records))

		if q.Limit > 0 && len(crawl.Records) >= q.Limit {
			crawl.Records = crawl.Records[:q.Limit]
			break
		}
		if len(b.records) == 0 || b.last {
			break
		}
	}

	return crawl, nil
}
