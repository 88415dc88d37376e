package crawler

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes an absolute href so that equivalent links compare
// equal. The query string and fragment are dropped along with any trailing
// slash. Malformed input is returned trimmed and is rejected later by the
// origin filter.
func Normalize(raw string) string {
	link := strings.TrimSpace(raw)
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	return strings.TrimRight(link, "/")
}

// IsInternal reports whether candidate belongs to the site identified by
// authority. Self links are rejected. The host test is a plain string suffix
// match, so "blog.example.com" and "myexample.com" both match "example.com".
func IsInternal(candidate, current, authority string) bool {
	return OriginFilter{}.Allow(candidate, current, authority)
}

// OriginFilter decides whether a normalized link stays inside the crawl.
type OriginFilter struct {
	// Strict requires the host to equal the authority or to end with
	// "."+authority, which excludes look-alike domains.
	Strict bool
}

// Allow applies the filter to candidate found on the page current.
func (f OriginFilter) Allow(candidate, current, authority string) bool {
	if candidate == current || authority == "" {
		return false
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	if !f.Strict {
		return strings.HasSuffix(host, authority)
	}
	return host == authority || strings.HasSuffix(host, "."+authority)
}

// SiteAuthority derives the crawl boundary from a parsed seed: the lowercased
// host[:port] without a leading "www.".
func SiteAuthority(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
