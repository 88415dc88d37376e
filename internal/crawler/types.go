package crawler

// PageRecord is the externally visible projection of one crawled page.
// Empty fields are omitted when serialized.
type PageRecord struct {
	Page         string   `json:"page,omitempty"`
	Links        []string `json:"links,omitempty"`
	StaticAssets []string `json:"staticAssets,omitempty"`
}

// Seed is a validated crawl starting point.
type Seed struct {
	// URL is the scheme-qualified seed as it was probed.
	URL string
	// Authority is the seed host (with port, if any) lowercased and without
	// a leading "www.". It marks the internal/external boundary.
	Authority string
}

// ScanCompleted is published once a scan finishes.
type ScanCompleted struct {
	ActivityID  string `json:"activity_id"`
	Seed        string `json:"seed"`
	Pages       int    `json:"pages"`
	DurationMs  int64  `json:"duration_ms"`
	CompletedAt string `json:"completed_at"`
}
