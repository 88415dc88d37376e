// Package cmd implements the sitecrawler CLI.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health, metrics, and the scan endpoint
//     GET /web-crawler/v1/scan?url=. Each request gets an activity ID (taken from the
//     activity-id header or generated) that tags every log line of its crawl.
//   - Scanner: internal/crawler.Scanner validates the seed (non-empty, URL shaped,
//     answering 200 OK), derives the site authority and runs the engine with a fresh
//     crawl state. Rejected seeds surface as *crawler.CrawlError and map to 422.
//   - Engine: an unbounded in-memory work queue feeds a fixed worker pool sized by
//     crawler.concurrency. A URL is claimed in the shared visited set before it is
//     queued, so each page is fetched at most once. The crawl ends when no URL is
//     queued or in flight.
//   - Fetch pipeline: the Colly-based fetcher downloads pages and goquery extracts
//     anchors and images. Fetch failures are logged and end that branch only.
//   - Fanout: when pubsub.topic_name is set, a ScanCompleted event is published
//     after every successful scan.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides
//     structured logging; Prometheus metrics are exported via the metrics middleware
//     and /metrics handler.
//
// Quick checklist:
//   - Configure env vars: CRAWLER_SERVER_PORT or PORT, CRAWLER_CRAWLER_CONCURRENCY,
//     CRAWLER_HTTP_TIMEOUT_SECONDS, CRAWLER_CRAWLER_SCAN_TIMEOUT_SECONDS,
//     CRAWLER_ORIGIN_STRICT_SUBDOMAINS, and CRAWLER_PUBSUB_* for completion events.
//   - Run the service: go run . serve --config config.yaml
//   - One-shot crawl: go run . scan https://example.com
package cmd
