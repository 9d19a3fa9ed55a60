// Package source compiles declarative source tables into runnable sources
// and builds the per-page request URLs.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/extraction"
)

// ErrUnknownSource is returned when a request names a source that is not configured
var ErrUnknownSource = errors.New("unknown source")

// Source is a compiled source table
type Source struct {
	Config    config.SourceConfig
	Extractor *extraction.Extractor

	base *url.URL
}

// New compiles a source table
func New(cfg config.SourceConfig) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if cfg.Origin != "" {
		if _, err := url.Parse(cfg.Origin); err != nil {
			return nil, fmt.Errorf("parse origin: %w", err)
		}
	}

	s := &Source{
		Config: cfg,
		base:   base,
	}
	s.Extractor = extraction.NewExtractor(cfg.Name, &s.Config.Extraction)
	return s, nil
}

// Name returns the source name
func (s *Source) Name() string { return s.Config.Name }

// Fields returns the declared field names in table order
func (s *Source) Fields() []string { return s.Config.Names() }

// URL builds the request URL for a 1-based page index
func (s *Source) URL(page int, q Query) string {
	u := *s.base
	params := u.Query()

	if s.Config.PageParam != "" {
		params.Set(s.Config.PageParam, strconv.Itoa(page))
	}
	if s.Config.OffsetParam != "" {
		params.Set(s.Config.OffsetParam, strconv.Itoa((page-1)*s.Config.PageSize))
	}
	if s.Config.KeywordParam != "" && q.Keyword != "" {
		params.Set(s.Config.KeywordParam, q.Keyword)
	}
	if s.Config.JobOptions {
		for key, values := range q.JobParams() {
			params[key] = values
		}
	}

	u.RawQuery = params.Encode()
	return u.String()
}

// Registry holds every configured source by name
type Registry struct {
	sources map[string]*Source
	order   []string
}

// NewRegistry compiles every source table of the configuration
func NewRegistry(cfgs []config.SourceConfig) (*Registry, error) {
	r := &Registry{sources: make(map[string]*Source, len(cfgs))}
	for _, cfg := range cfgs {
		s, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", cfg.Name, err)
		}
		if _, dup := r.sources[s.Name()]; dup {
			return nil, fmt.Errorf("source %q declared twice", s.Name())
		}
		r.sources[s.Name()] = s
		r.order = append(r.order, s.Name())
	}
	return r, nil
}

// Get returns a source by name
func (r *Registry) Get(name string) (*Source, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return s, nil
}

// Names returns the source names in declaration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// NeedsTrust reports whether any source enriches records with the allow-list
func (r *Registry) NeedsTrust() bool {
	for _, s := range r.sources {
		if s.Config.Trust {
			return true
		}
	}
	return false
}
