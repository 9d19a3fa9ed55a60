package pipeline

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
	"github.com/williampepple1/listing-scraper/internal/trust"
	"github.com/williampepple1/listing-scraper/pkg/models"
)

var urlFields = map[string]bool{
	models.FieldURL:      true,
	models.FieldImageURL: true,
}

// Normalizer cleans extracted records. It never drops a record or a field.
type Normalizer struct {
	// Fields are the declared field names of the source
	Fields []string
	// Origin resolves path-only URLs, e.g. https://www.coursera.org
	Origin string
	// Trusted flags records whose organization matches; nil disables it
	Trusted *trust.Set
}

// Normalize returns cleaned copies of the records in the same order
func (n Normalizer) Normalize(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		r.Extra = copyExtra(r.Extra)
		r.Update(n.Fields, func(name, value string) string {
			value = CleanText(value)
			if urlFields[name] {
				value = ResolveURL(n.Origin, value)
			}
			return value
		})
		if n.Trusted != nil {
			r.Trusted = n.Trusted.Contains(r.Organization)
		}
		out[i] = r
	}
	return out
}

// CleanText trims the value and collapses internal runs of whitespace
func CleanText(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// ResolveURL turns a path-only value into an absolute URL on origin.
// Absolute URLs, sentinels and anything else that is not a path are
// returned unchanged, so resolving twice gives the same result.
func ResolveURL(origin, raw string) string {
	if origin == "" || !strings.HasPrefix(raw, "/") {
		return raw
	}

	base, err := url.Parse(origin)
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	resolved := base.ResolveReference(ref)
	return purell.NormalizeURL(resolved, purell.FlagsSafe|purell.FlagRemoveDotSegments)
}

func copyExtra(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
