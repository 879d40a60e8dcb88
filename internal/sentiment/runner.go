package sentiment

import (
	"context"
	"math/rand"
	"time"

	"stock-sentiment/internal/logger"
)

const (
	defaultRefreshInterval = 30 * time.Minute
	maxStartJitter         = 15 * time.Second
)

// Runner keeps a fixed watchlist warm by refreshing each ticker on an
// interval, so interactive lookups hit the cache instead of the full
// pipeline.
type Runner struct {
	service  *Service
	tickers  []string
	source   string
	interval time.Duration
}

// NewRunner builds a watchlist runner over the service.
func NewRunner(service *Service, tickers []string, source string, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Runner{
		service:  service,
		tickers:  tickers,
		source:   normalizeSource(source),
		interval: interval,
	}
}

// Run refreshes every watched ticker after a short random start delay
// and then on each interval tick until the context is cancelled. The
// jitter staggers instances that start together so they do not hit the
// upstream providers at once.
func (r *Runner) Run(ctx context.Context) {
	if len(r.tickers) == 0 {
		logger.Info(ctx, "Watchlist empty, refresh loop not started")
		return
	}

	logger.Info(ctx, "Starting watchlist refresh loop",
		"tickers", len(r.tickers), "interval", r.interval.String())

	jitter := time.Duration(rand.Float64() * float64(maxStartJitter))
	select {
	case <-ctx.Done():
		return
	case <-time.After(jitter):
	}

	r.refreshAll(ctx)

	tick := time.NewTicker(r.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Watchlist refresh loop stopped")
			return
		case <-tick.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *Runner) refreshAll(ctx context.Context) {
	for _, ticker := range r.tickers {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.service.RefreshSentiment(ctx, ticker, r.source); err != nil {
			logger.ErrorWithErr(ctx, "Watchlist refresh failed", err, "ticker", ticker)
		}
	}
}
