// Package dispatcher manages worker fan-out over a work queue.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/site-relations-crawler/internal/queue/memory"
)

// Source hands out work items until it is closed.
type Source interface {
	Dequeue(ctx context.Context) (string, error)
}

// Handler processes one work item.
type Handler func(ctx context.Context, item string)

// Dispatcher fans queue items out to a fixed pool of workers.
type Dispatcher struct {
	workers int
	logger  *zap.Logger
}

// New creates a Dispatcher running the given number of workers.
func New(workers int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		workers: workers,
		logger:  logger,
	}
}

// Run starts the workers and blocks until the source is closed and drained or
// the context ends. A closed source is a clean shutdown and yields nil.
func (d *Dispatcher) Run(ctx context.Context, source Source, handle Handler) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			return d.work(gctx, i, source, handle)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}
	return nil
}

func (d *Dispatcher) work(ctx context.Context, index int, source Source, handle Handler) error {
	for {
		item, err := source.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, memory.ErrClosed) {
				return nil
			}
			d.logger.Debug("worker stopping", zap.Int("index", index), zap.Error(err))
			return err
		}
		handle(ctx, item)
	}
}
