// Package document parses fetched HTML into the anchor and image references
// the crawler walks.
package document

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document holds the absolute references found in one HTML page.
type Document struct {
	url     string
	anchors []string
	images  []string
}

// Parse reads body as HTML and resolves every a[href] and img[src] against
// the page's <base href>, falling back to base. References that cannot be
// resolved are dropped.
func Parse(base *url.URL, body []byte) (*Document, error) {
	if base == nil {
		return nil, fmt.Errorf("parse document: nil base URL")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	resolveBase := base
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := base.Parse(strings.TrimSpace(href)); err == nil {
			resolveBase = b
		}
	}

	return &Document{
		url:     base.String(),
		anchors: collect(doc, "a[href]", "href", resolveBase),
		images:  collect(doc, "img[src]", "src", resolveBase),
	}, nil
}

// URL returns the location the document was fetched from.
func (d *Document) URL() string {
	return d.url
}

// Anchors returns the absolute href of every anchor.
func (d *Document) Anchors() []string {
	return d.anchors
}

// Images returns the absolute src of every image.
func (d *Document) Images() []string {
	return d.images
}

func collect(doc *goquery.Document, selector, attr string, base *url.URL) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if abs := Resolve(base, s.AttrOr(attr, "")); abs != "" {
			out = append(out, abs)
		}
	})
	return out
}

// Resolve turns ref into an absolute URL relative to base. It returns an
// empty string for blank or unparseable references and for bare fragments.
func Resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return ""
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}
