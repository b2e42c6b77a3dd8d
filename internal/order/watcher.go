package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusbites/campusbites/internal/domain"
)

// DefaultInterval matches the refresh rate of the order-detail view.
const DefaultInterval = 10 * time.Second

// Fetcher is the slice of the API client the watcher needs.
type Fetcher interface {
	Order(ctx context.Context, id int) (*domain.Order, error)
}

// Watcher polls a single order to reflect vendor-driven transitions. It only
// ever reports statuses returned by the server.
type Watcher struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger
}

func NewWatcher(fetcher Fetcher, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
	}
}

// Watch fetches the order once, then polls on the interval until the order
// reaches a terminal status or ctx is cancelled. onChange fires for the
// initial fetch and for every observed status change. A failed poll leaves
// the last reported state in place and is retried on the next tick.
func (w *Watcher) Watch(ctx context.Context, orderID int, onChange func(domain.Order)) error {
	current, err := w.fetcher.Order(ctx, orderID)
	if err != nil {
		return fmt.Errorf("fetch order %d: %w", orderID, err)
	}
	onChange(*current)

	last := current.Status
	if last.IsTerminal() {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			polled, err := w.fetcher.Order(ctx, orderID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Warn("order poll failed", "order_id", orderID, "error", err)
				continue
			}
			if polled.Status != last {
				last = polled.Status
				onChange(*polled)
			}
			if last.IsTerminal() {
				return nil
			}
		}
	}
}
