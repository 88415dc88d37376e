package crawler

import (
	"context"
	"errors"
	"sync"
)

var errFakeFetch = errors.New("fetch failed")

type fakeDoc struct {
	url     string
	anchors []string
	images  []string
}

func (d fakeDoc) URL() string       { return d.url }
func (d fakeDoc) Anchors() []string { return d.anchors }
func (d fakeDoc) Images() []string  { return d.images }

type page struct {
	anchors []string
	images  []string
	fail    bool
}

// fakeFetcher serves a fixed site from memory and counts fetches per URL.
type fakeFetcher struct {
	pages map[string]page
	block bool

	mu    sync.Mutex
	calls map[string]int
}

func newFakeFetcher(pages map[string]page) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (Document, error) {
	f.mu.Lock()
	f.calls[url]++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	p, ok := f.pages[url]
	if !ok || p.fail {
		return nil, errFakeFetch
	}
	return fakeDoc{url: url, anchors: p.anchors, images: p.images}, nil
}

func (f *fakeFetcher) Calls() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.calls))
	for k, v := range f.calls {
		out[k] = v
	}
	return out
}

type fakeProber struct {
	status int
	err    error

	mu    sync.Mutex
	calls []string
}

func (p *fakeProber) Status(_ context.Context, url string) (int, error) {
	p.mu.Lock()
	p.calls = append(p.calls, url)
	p.mu.Unlock()
	return p.status, p.err
}
