package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"http://site.test/a":           "http://site.test/a",
		"http://site.test/a/":          "http://site.test/a",
		"http://site.test/a?x=1":       "http://site.test/a",
		"http://site.test/a/?x=1#top":  "http://site.test/a",
		"http://site.test/a#section":   "http://site.test/a",
		"http://site.test/":            "http://site.test",
		"http://site.test//":           "http://site.test",
		"  http://site.test/docs/  ":   "http://site.test/docs",
		"http://site.test/a#frag?x=1":  "http://site.test/a",
		"":                             "",
		"https://Site.test/Case/Kept/": "https://Site.test/Case/Kept",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"http://site.test/a/?x=1#f",
		"http://site.test///",
		"https://site.test/docs/index.html",
		"mailto:someone@site.test",
		"not a url/",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "Normalize(%q)", in)
	}
}

func TestIsInternal(t *testing.T) {
	t.Parallel()

	const current = "http://example.com/start"
	cases := []struct {
		name      string
		candidate string
		authority string
		want      bool
	}{
		{"same host", "http://example.com/about", "example.com", true},
		{"other scheme same host", "https://example.com/about", "example.com", true},
		{"subdomain", "https://blog.example.com/post", "example.com", true},
		{"look-alike suffix", "https://myexample.com/", "example.com", true},
		{"www host", "http://www.example.com/a", "example.com", true},
		{"external", "https://other.test/", "example.com", false},
		{"self link", current, "example.com", false},
		{"mailto", "mailto:hi@example.com", "example.com", false},
		{"javascript", "javascript:void(0)", "example.com", false},
		{"relative leftover", "/about", "example.com", false},
		{"empty authority", "http://example.com/about", "", false},
		{"upper case host", "http://EXAMPLE.com/about", "example.com", true},
		{"port kept", "http://127.0.0.1:8080/a", "127.0.0.1:8080", true},
		{"port differs", "http://127.0.0.1:9090/a", "127.0.0.1:8080", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, IsInternal(tc.candidate, current, tc.authority))
		})
	}
}

func TestOriginFilterStrict(t *testing.T) {
	t.Parallel()

	filter := OriginFilter{Strict: true}
	const current = "http://example.com"

	require.True(t, filter.Allow("http://example.com/a", current, "example.com"))
	require.True(t, filter.Allow("https://blog.example.com/a", current, "example.com"))
	require.False(t, filter.Allow("https://myexample.com/a", current, "example.com"))
	require.False(t, filter.Allow(current, current, "example.com"))
}

func TestSiteAuthority(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://www.example.com/path":   "example.com",
		"https://WWW.Example.com:8443/x": "example.com:8443",
		"http://blog.example.com":        "blog.example.com",
		"http://127.0.0.1:8080/":         "127.0.0.1:8080",
		"http://wwwexample.com":          "wwwexample.com",
	}
	for raw, want := range cases {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, want, SiteAuthority(u), raw)
	}
}
