package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// seedPattern accepts an optional http(s) scheme, a dotted host with an
// optional port and an optional path, query or fragment.
var seedPattern = regexp.MustCompile(
	`^(?i)(https?://)?([a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9-]+(:\d{1,5})?([/?#]\S*)?$`,
)

// ValidateSeed gates a crawl: the seed must be non-empty, look like a URL and
// answer 200 OK. Seeds without a scheme are probed over http. Every failure is
// a *CrawlError.
func ValidateSeed(ctx context.Context, prober Prober, raw string) (Seed, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Seed{}, &CrawlError{Kind: KindValidation, Err: ErrEmptyURL}
	}
	if !seedPattern.MatchString(raw) {
		return Seed{}, &CrawlError{Kind: KindValidation, URL: raw, Err: ErrInvalidURL}
	}
	if !hasHTTPScheme(raw) {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Seed{}, &CrawlError{Kind: KindValidation, URL: raw, Err: ErrInvalidURL}
	}

	status, err := prober.Status(ctx, raw)
	if err != nil {
		return Seed{}, &CrawlError{
			Kind: KindUnreachable,
			URL:  raw,
			Err:  fmt.Errorf("%w: %w", ErrUnreachable, err),
		}
	}
	if status != http.StatusOK {
		return Seed{}, &CrawlError{
			Kind: KindUnreachable,
			URL:  raw,
			Err:  fmt.Errorf("%w: status %d", ErrUnreachable, status),
		}
	}

	return Seed{URL: raw, Authority: SiteAuthority(u)}, nil
}

func hasHTTPScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
