// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/JakeFAU/site-relations-crawler/internal/api"
	"github.com/JakeFAU/site-relations-crawler/internal/clock/system"
	"github.com/JakeFAU/site-relations-crawler/internal/config"
	"github.com/JakeFAU/site-relations-crawler/internal/crawler"
	collyfetcher "github.com/JakeFAU/site-relations-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/site-relations-crawler/internal/id/uuid"
	gcppublisher "github.com/JakeFAU/site-relations-crawler/internal/publisher/pubsub"
)

// App holds the shared services built from one Config: the fetcher, the
// scanner that drives the crawl engine, the optional Pub/Sub publisher and
// the HTTP server exposing them.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	scanner   *crawler.Scanner
	publisher *gcppublisher.Publisher
	server    *api.Server
}

// New wires every service. A Pub/Sub client is created only when a topic is
// configured; opts are passed to it.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...option.ClientOption) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Initializing application services...")

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.Crawler.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})
	engine := crawler.NewEngine(fetcher, crawler.EngineConfig{
		Concurrency:  cfg.Crawler.Concurrency,
		FetchTimeout: cfg.FetchTimeout(),
		Filter:       crawler.OriginFilter{Strict: cfg.Origin.StrictSubdomains},
	}, logger.Named("engine"))
	scanner := crawler.NewScanner(fetcher, engine, cfg.ScanTimeout(), logger.Named("scanner"))

	a := &App{
		cfg:     cfg,
		logger:  logger,
		scanner: scanner,
	}

	var publisher crawler.Publisher
	if cfg.PubSub.TopicName != "" {
		logger.Info("Connecting to GCP Pub/Sub",
			zap.String("project", cfg.PubSub.ProjectID),
			zap.String("topic", cfg.PubSub.TopicName),
		)
		pub, err := gcppublisher.Dial(ctx, cfg.PubSub.ProjectID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize publisher: %w", err)
		}
		a.publisher = pub
		publisher = pub
	}

	a.server = api.NewServer(scanner, publisher, uuid.New(), system.New(), cfg, logger.Named("api"))

	logger.Info("Application services initialized successfully.")
	return a, nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config returns the configuration the services were built from.
func (a *App) Config() config.Config {
	return a.cfg
}

// Scanner returns the site scanner.
func (a *App) Scanner() api.Scanner {
	return a.scanner
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Close releases external clients and flushes the logger.
func (a *App) Close() {
	a.logger.Info("Shutting down application services...")
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Error closing pubsub client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
