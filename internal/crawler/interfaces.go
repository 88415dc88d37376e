package crawler

import (
	"context"
	"time"
)

// Document is a fetched and parsed HTML page.
type Document interface {
	// URL is the final location of the document after redirects.
	URL() string
	// Anchors returns the absolute href of every anchor carrying one.
	Anchors() []string
	// Images returns the absolute src of every image carrying one.
	Images() []string
}

// Fetcher retrieves and parses the document at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Document, error)
}

// Prober reports the HTTP status returned for a URL.
type Prober interface {
	Status(ctx context.Context, url string) (int, error)
}

// Publisher pushes scan events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces activity IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
