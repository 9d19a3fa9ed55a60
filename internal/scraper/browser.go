package scraper

import (
	"context"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/proxy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BrowserFetcher renders a page in a headless browser and returns its DOM
type BrowserFetcher struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
	Logger *slog.Logger
}

// NewBrowserFetcher creates a new browser fetcher
func NewBrowserFetcher(cfg *config.AppConfig) *BrowserFetcher {
	return &BrowserFetcher{
		Config: cfg,
		Proxy:  proxy.NewManager(&cfg.Proxies),
		Logger: slog.Default(),
	}
}

func (f *BrowserFetcher) allocatorOptions() ([]chromedp.ExecAllocatorOption, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.Config.Browser.Headless),
	)
	if f.Config.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.Config.Browser.UserAgent))
	}

	server, err := f.Proxy.Server()
	if err != nil {
		return nil, err
	}
	if server != "" {
		opts = append(opts, chromedp.ProxyServer(server))
		// chromedp has no flag for proxy credentials
		if f.Config.Proxies.Auth.Username != "" {
			f.Logger.Warn("proxy credentials are ignored by the browser backend", "proxy", server)
		}
	}
	return opts, nil
}

func (f *BrowserFetcher) tasks(req Request, html *string) chromedp.Tasks {
	tasks := chromedp.Tasks{chromedp.Navigate(req.URL)}
	if req.WaitFor != "" {
		tasks = append(tasks, chromedp.WaitReady(req.WaitFor, chromedp.ByQuery))
	} else {
		tasks = append(tasks, chromedp.Sleep(f.Config.Browser.WaitTime))
	}
	return append(tasks, chromedp.OuterHTML("html", html, chromedp.ByQuery))
}

// Fetch navigates to the URL and returns the rendered outer HTML
func (f *BrowserFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "browser:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", req.URL))

	if timeout := f.Config.Scraper.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts, err := f.allocatorOptions()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid proxy")
		return nil, err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	if err := chromedp.Run(browserCtx, f.tasks(req, &html)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "browser run failed")
		return nil, err
	}

	return []byte(html), nil
}
