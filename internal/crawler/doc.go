// Package crawler implements the same-origin traversal engine: link
// normalization, origin filtering, seed validation, the shared crawl state,
// the concurrent engine that fills it, and the projection of that state into
// page records.
package crawler
