package crawler

import (
	"context"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/site-relations-crawler/internal/dispatcher"
	"github.com/JakeFAU/site-relations-crawler/internal/logging"
	"github.com/JakeFAU/site-relations-crawler/internal/metrics"
	"github.com/JakeFAU/site-relations-crawler/internal/queue/memory"
)

// EngineConfig tunes the traversal.
type EngineConfig struct {
	// Concurrency is the number of pages fetched in parallel.
	Concurrency int
	// FetchTimeout bounds each individual fetch. Zero leaves it to the fetcher.
	FetchTimeout time.Duration
	// Filter decides which links stay inside the crawl.
	Filter OriginFilter
}

// Engine walks every page reachable from a seed through internal links.
// An Engine holds no per-crawl state and may run several crawls at once.
type Engine struct {
	fetcher Fetcher
	cfg     EngineConfig
	logger  *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(fetcher Fetcher, cfg EngineConfig, logger *zap.Logger) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Crawl traverses the site rooted at seed and returns the populated State.
// It returns once every reachable internal page has been visited or ctx ends;
// in the latter case the State holds the pages recorded so far.
func (e *Engine) Crawl(ctx context.Context, seed Seed) *State {
	state := NewState()
	queue := memory.NewQueue()
	logger := logging.FromContext(ctx, e.logger)

	// pending counts URLs enqueued but not yet fully visited. Children are
	// added before their parent is released, so zero means the closure is done.
	var pending atomic.Int64
	dispatch := func(url string) {
		if !state.MarkVisited(url) {
			return
		}
		pending.Add(1)
		if err := queue.Enqueue(url); err != nil {
			pending.Add(-1)
			return
		}
		metrics.ObserveDispatch()
	}
	release := func() {
		if pending.Add(-1) == 0 {
			queue.Close()
		}
	}

	dispatch(Normalize(seed.URL))

	pool := dispatcher.New(e.cfg.Concurrency, logger)
	err := pool.Run(ctx, queue, func(ctx context.Context, url string) {
		defer release()
		metrics.IncActiveWorkers()
		defer metrics.DecActiveWorkers()

		for _, link := range e.visit(ctx, logger, state, seed.Authority, url) {
			dispatch(link)
		}
	})
	queue.Close()
	if err != nil {
		logger.Warn("crawl interrupted",
			zap.String("seed", seed.URL),
			zap.Int("pages", state.Len()),
			zap.Error(err),
		)
	}
	return state
}

// visit fetches url, records what it links to and returns its internal links.
// A failed fetch records nothing and ends this branch of the traversal.
func (e *Engine) visit(
	ctx context.Context,
	logger *zap.Logger,
	state *State,
	authority string,
	url string,
) []string {
	logger.Debug("received a new URL to index", zap.String("url", url))

	fetchCtx := ctx
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}

	doc, err := e.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		metrics.ObservePage(url, metrics.PageFailed)
		logger.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	links := mapset.NewThreadUnsafeSet[string]()
	for _, href := range doc.Anchors() {
		link := Normalize(href)
		if e.cfg.Filter.Allow(link, url, authority) {
			links.Add(link)
		}
	}
	assets := mapset.NewThreadUnsafeSet[string]()
	for _, src := range doc.Images() {
		if src != "" {
			assets.Add(src)
		}
	}

	found := links.ToSlice()
	state.Record(url, found, assets.ToSlice())
	metrics.ObservePage(url, metrics.PageFetched)
	logger.Info("page processed",
		zap.String("url", url),
		zap.Int("links", len(found)),
		zap.Int("assets", assets.Cardinality()),
	)
	return found
}
