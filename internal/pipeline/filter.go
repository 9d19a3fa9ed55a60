package pipeline

import (
	"strings"

	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/pkg/models"
)

// Filter keeps records whose match field contains the query and that meet
// every requirement. Equals is compared exactly and NotEquals ignoring case.
// An empty query or match field skips the text check.
type Filter struct {
	Field   string
	Query   string
	Require []config.Requirement
}

// NewFilter builds the filter a source declares for a query string
func NewFilter(cfg config.FilterConfig, query string) Filter {
	return Filter{Field: cfg.Field, Query: query, Require: cfg.Require}
}

// Match reports whether a single record passes
func (f Filter) Match(r *models.Record) bool {
	if f.Field != "" && f.Query != "" {
		if !strings.Contains(strings.ToLower(r.Value(f.Field)), strings.ToLower(f.Query)) {
			return false
		}
	}

	for _, req := range f.Require {
		v := r.Value(req.Field)
		if req.Equals != "" && v != req.Equals {
			return false
		}
		if req.NotEquals != "" && strings.EqualFold(v, req.NotEquals) {
			return false
		}
	}
	return true
}

// Apply returns the matching records in their original order
func (f Filter) Apply(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
