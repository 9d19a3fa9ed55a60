package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/proxy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HTTPFetcher implements HTTP-based page retrieval
type HTTPFetcher struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
	Client *resty.Client

	cache *expirable.LRU[string, []byte]
}

// NewHTTPFetcher creates a new HTTP fetcher. Responses are cached in memory
// only when scraper.cache_ttl is positive.
func NewHTTPFetcher(cfg *config.AppConfig) *HTTPFetcher {
	f := &HTTPFetcher{
		Config: cfg,
		Proxy:  proxy.NewManager(&cfg.Proxies),
	}

	client := resty.New()
	client.SetTimeout(cfg.Scraper.Timeout)
	client.SetHeader("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	if f.Proxy.Enabled() {
		client.SetTransport(&http.Transport{
			Proxy: func(*http.Request) (*url.URL, error) {
				return f.Proxy.GetProxyURL()
			},
		})
	}
	f.Client = client

	if cfg.Scraper.CacheTTL > 0 {
		size := cfg.Scraper.CacheSize
		if size < 1 {
			size = 256
		}
		f.cache = expirable.NewLRU[string, []byte](size, nil, cfg.Scraper.CacheTTL)
	}

	return f
}

// Fetch performs one GET and returns the body of a 2xx response
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "http:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", req.URL))

	if f.cache != nil {
		if body, ok := f.cache.Get(req.URL); ok {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return body, nil
		}
	}

	r := f.Client.R().SetContext(ctx)
	if agents := f.Config.Scraper.UserAgents; len(agents) > 0 {
		r.SetHeader("User-Agent", agents[rand.Intn(len(agents))])
	}

	res, err := r.Get(req.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("%w: %d", ErrStatus, res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-2xx response")
		return nil, err
	}

	body := res.Body()
	if f.cache != nil {
		f.cache.Add(req.URL, body)
	}
	return body, nil
}
