// Package api hosts the HTTP server, middleware, and handlers. Notable routes:
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /web-crawler/v1/scan?url= to crawl a site and return its page
//     records. The optional activity-id request header is echoed back and
//     attached to every log line of the scan.
package api
