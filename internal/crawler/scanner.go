package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/site-relations-crawler/internal/logging"
	"github.com/JakeFAU/site-relations-crawler/internal/metrics"
)

// Scanner runs the scan operation: validate the seed, crawl it with a fresh
// State and project the result into page records.
type Scanner struct {
	prober  Prober
	engine  *Engine
	timeout time.Duration
	logger  *zap.Logger
}

// NewScanner constructs a Scanner. A positive timeout bounds the traversal of
// each scan; pages recorded before it fires are still returned.
func NewScanner(prober Prober, engine *Engine, timeout time.Duration, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		prober:  prober,
		engine:  engine,
		timeout: timeout,
		logger:  logger,
	}
}

// Scan crawls the site rooted at rawURL. It fails only with a *CrawlError,
// before any page is traversed.
func (s *Scanner) Scan(ctx context.Context, rawURL string) ([]PageRecord, error) {
	start := time.Now()
	logger := logging.FromContext(ctx, s.logger)

	seed, err := ValidateSeed(ctx, s.prober, rawURL)
	if err != nil {
		status := metrics.ScanRejected
		if IsUnreachable(err) {
			status = metrics.ScanUnreachable
		}
		metrics.ObserveScan(status, time.Since(start))
		logger.Error("seed validation failed", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}
	logger.Info("starting crawl", zap.String("seed", seed.URL), zap.String("authority", seed.Authority))

	crawlCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	state := s.engine.Crawl(crawlCtx, seed)
	records := BuildRecords(state.Relations(), state.Assets())

	status := metrics.ScanSucceeded
	if crawlCtx.Err() != nil {
		status = metrics.ScanInterrupted
	}
	metrics.ObserveScan(status, time.Since(start))
	logger.Info("crawl finished",
		zap.String("seed", seed.URL),
		zap.String("status", status),
		zap.Int("pages", len(records)),
		zap.Int("dispatched", state.VisitedCount()),
	)
	return records, nil
}
