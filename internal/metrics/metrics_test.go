package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeSite(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard http", "http://example.com/path", "example.com"},
		{"standard https", "https://Example.com/path", "example.com"},
		{"no scheme", "example.com/path", "example.com"},
		{"just host", "example.com", "example.com"},
		{"host with port", "example.com:8080", "example.com"},
		{"ip address", "192.168.1.1", "192.168.1.1"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeSite(tc.input); got != tc.expected {
				t.Errorf("SanitizeSite(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if crawlerPagesTotal == nil || crawlerScansTotal == nil ||
		httpRequestsTotal == nil || httpRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObservePage(t *testing.T) {
	Init()
	before := testutil.ToFloat64(crawlerPagesTotal.WithLabelValues("pages.test", PageFetched))

	ObservePage("https://pages.test/a", PageFetched)
	ObservePage("https://PAGES.test/b", PageFetched)

	if got := testutil.ToFloat64(crawlerPagesTotal.WithLabelValues("pages.test", PageFetched)); got != before+2 {
		t.Errorf("expected %v fetched pages, got %v", before+2, got)
	}
}

func TestObserveScan(t *testing.T) {
	Init()
	before := testutil.ToFloat64(crawlerScansTotal.WithLabelValues(ScanRejected))

	ObserveScan(ScanRejected, 10*time.Millisecond)

	if got := testutil.ToFloat64(crawlerScansTotal.WithLabelValues(ScanRejected)); got != before+1 {
		t.Errorf("expected %v rejected scans, got %v", before+1, got)
	}
	if count := testutil.CollectAndCount(crawlerScanDurationSeconds); count != 1 {
		t.Errorf("expected scan duration histogram to be collected, got %d", count)
	}
}

func TestActiveWorkersGauge(t *testing.T) {
	Init()
	before := testutil.ToFloat64(crawlerActiveWorkers)

	IncActiveWorkers()
	if got := testutil.ToFloat64(crawlerActiveWorkers); got != before+1 {
		t.Errorf("expected gauge %v, got %v", before+1, got)
	}
	DecActiveWorkers()
	if got := testutil.ToFloat64(crawlerActiveWorkers); got != before {
		t.Errorf("expected gauge back to %v, got %v", before, got)
	}
}

// Fuzz test for SanitizeSite.
func FuzzSanitizeSite(f *testing.F) {
	testcases := []string{"http://example.com", "https://google.com", "ftp://example.com"}
	for _, tc := range testcases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		sanitized := SanitizeSite(orig)
		if sanitized == "" {
			t.Errorf("SanitizeSite(%q) returned an empty string", orig)
		}
	})
}
