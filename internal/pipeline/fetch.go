package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/scraper"
	"github.com/williampepple1/listing-scraper/internal/source"
	"github.com/williampepple1/listing-scraper/pkg/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errMalformedJSON = errors.New("malformed json payload")

// RawPage is the outcome of fetching one page. A page with a non-nil Err
// failed; otherwise exactly one of Doc or JSON holds the parsed payload,
// depending on the source format.
type RawPage struct {
	Index int
	URL   string
	Doc   *goquery.Document
	JSON  gjson.Result
	Err   error
}

// Failed reports whether the page could not be retrieved or parsed
func (p RawPage) Failed() bool { return p.Err != nil }

// PageFetcher retrieves and parses single pages of one source. It never
// returns an error: failures are logged and carried in RawPage.Err.
type PageFetcher struct {
	Source  *source.Source
	Fetcher scraper.Fetcher
	Logger  *slog.Logger
}

// Fetch retrieves page index for the query
func (f *PageFetcher) Fetch(ctx context.Context, index int, q source.Query) RawPage {
	ctx, span := tracer.Start(ctx, "pipeline:FetchPage")
	defer span.End()

	page := RawPage{Index: index, URL: f.Source.URL(index, q)}
	span.SetAttributes(
		attribute.String("source", f.Source.Name()),
		attribute.Int("page", index),
	)

	body, err := f.Fetcher.Fetch(ctx, scraper.Request{URL: page.URL, WaitFor: f.Source.Config.WaitFor})
	if err == nil {
		err = page.parse(f.Source.Config.Format, body)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "page failed")
		f.Logger.WarnContext(ctx, "page failed",
			"source", f.Source.Name(), "page", index, "url", page.URL, "err", err)
		page.Err = err
	}
	return page
}

func (p *RawPage) parse(format string, body []byte) error {
	if format == config.FormatJSON {
		if !gjson.ValidBytes(body) {
			return errMalformedJSON
		}
		p.JSON = gjson.ParseBytes(body)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return err
	}
	p.Doc = doc
	return nil
}

// batch is what one successfully fetched page contributed
type batch struct {
	records []models.Record
	last    bool
}

func extract(src *source.Source, page RawPage) batch {
	if src.Config.Format == config.FormatJSON {
		last := src.Extractor.LastPage(page.JSON)
		return batch{
			records: src.Extractor.JSON(page.JSON),
			last:    last > 0 && page.Index >= last,
		}
	}
	return batch{records: src.Extractor.HTML(page.Doc.Selection)}
}
