package worker

import (
	"context"
	"errors"
	"time"

	"spidyleet/internal/platform/logger"

	"go.uber.org/zap"
)

type ListingSource interface {
	RefreshListing(ctx context.Context) (int, error)
}

// ListingRefresher reloads the problem listing on a fixed interval so list
// requests rarely wait on the backend.
type ListingRefresher struct {
	source   ListingSource
	interval time.Duration
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewListingRefresher(source ListingSource, interval, timeout time.Duration) *ListingRefresher {
	return &ListingRefresher{
		source:   source,
		interval: interval,
		timeout:  timeout,
		logger:   logger.NewNamedLogger("listing_refresher"),
	}
}

// Start refreshes once, then on every tick until ctx is done. A non-positive
// interval disables it.
func (w *ListingRefresher) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("Listing refresher disabled")
		return
	}
	w.logger.Infow("Listing refresher started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Listing refresher stopping...")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *ListingRefresher) refresh(ctx context.Context) {
	refreshCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		refreshCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	n, err := w.source.RefreshListing(refreshCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// keep the last cached listing, try again next tick
		w.logger.Warnw("Failed to refresh listing", "error", err)
		return
	}
	w.logger.Debugw("Listing refreshed", "problems", n)
}
