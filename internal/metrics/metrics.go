// Package metrics exposes Prometheus collectors for the crawler service.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page outcomes recorded by ObservePage.
const (
	PageFetched = "fetched"
	PageFailed  = "failed"
)

// Scan outcomes recorded by ObserveScan.
const (
	ScanSucceeded   = "succeeded"
	ScanRejected    = "rejected"
	ScanUnreachable = "unreachable"
	ScanInterrupted = "interrupted"
)

var (
	crawlerPagesTotal           *prometheus.CounterVec
	crawlerScansTotal           *prometheus.CounterVec
	crawlerScanDurationSeconds  prometheus.Histogram
	crawlerLinksDiscoveredTotal prometheus.Counter
	crawlerActiveWorkers        prometheus.Gauge
	httpRequestsTotal           *prometheus.CounterVec
	httpRequestDurationSeconds  *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		crawlerPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_pages_total",
				Help: "Total number of pages visited, labeled by site and outcome.",
			},
			[]string{"site", "status"},
		)

		crawlerScansTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_scans_total",
				Help: "Total number of scan requests, labeled by outcome.",
			},
			[]string{"status"},
		)

		crawlerScanDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crawler_scan_duration_seconds",
				Help:    "Histogram of full scan durations.",
				Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
		)

		crawlerLinksDiscoveredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crawler_links_discovered_total",
				Help: "Total number of unique internal URLs dispatched for fetching.",
			},
		)

		crawlerActiveWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "crawler_active_workers",
				Help: "Number of workers currently visiting a page.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 30, 120},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage counts one visited page.
func ObservePage(site string, status string) {
	Init()
	crawlerPagesTotal.WithLabelValues(SanitizeSite(site), status).Inc()
}

// ObserveScan counts one scan and records its duration.
func ObserveScan(status string, duration time.Duration) {
	Init()
	crawlerScansTotal.WithLabelValues(status).Inc()
	crawlerScanDurationSeconds.Observe(duration.Seconds())
}

// ObserveDispatch counts one URL handed to the worker pool.
func ObserveDispatch() {
	Init()
	crawlerLinksDiscoveredTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	crawlerActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	crawlerActiveWorkers.Dec()
}
