// Package collyfetcher implements crawler.Fetcher and crawler.Prober using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/JakeFAU/site-relations-crawler/internal/crawler"
	"github.com/JakeFAU/site-relations-crawler/internal/document"
)

const defaultTimeout = 30 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

// Fetcher implements crawler.Fetcher and crawler.Prober using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

type response struct {
	URL        *url.URL
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// New builds a Fetcher. Clones of the base collector share its transport and
// timeout, so both are fixed here rather than per request.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	if cfg.MaxBodyBytes > 0 {
		c.MaxBodySize = cfg.MaxBodyBytes
	}
	// Deduplication belongs to the crawl state, and robots.txt is not consulted.
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch downloads rawURL and parses it as HTML. Non-2xx responses and
// non-HTML content are errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawler.Document, error) {
	resp, err := f.get(ctx, rawURL, false)
	if err != nil {
		return nil, err
	}
	if ct := resp.Headers.Get("Content-Type"); !isHTML(ct) {
		return nil, fmt.Errorf("%w: %s served %q", crawler.ErrNotHTML, rawURL, ct)
	}
	base := resp.URL
	if base == nil {
		if base, err = url.Parse(rawURL); err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
	}
	doc, err := document.Parse(base, resp.Body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Status issues a GET for rawURL and returns the status code whatever it is.
// Only transport failures are reported as errors.
func (f *Fetcher) Status(ctx context.Context, rawURL string) (int, error) {
	resp, err := f.get(ctx, rawURL, true)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string, anyStatus bool) (response, error) {
	var (
		result   response
		fetchErr error
	)
	collector := f.buildCollector(ctx, anyStatus)
	f.configureCollectorHooks(collector, &result, &fetchErr)

	if err := f.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		return response{}, err
	}
	return result, nil
}

func (f *Fetcher) buildCollector(ctx context.Context, anyStatus bool) *colly.Collector {
	collector := f.baseCollector.Clone()
	collector.Context = ctx
	collector.ParseHTTPErrorResponse = anyStatus
	return collector
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, result *response, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		res := response{
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
		if r.Headers != nil {
			res.Headers = r.Headers.Clone()
		}
		if r.Request != nil {
			res.URL = r.Request.URL
		}
		*result = res
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			*fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		return nil
	}
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
	}
}
