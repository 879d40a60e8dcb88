// Package fetchobs wraps content fetchers with logging and tracing.
package fetchobs

import (
	"context"

	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

// observableFetcher wraps a Fetcher with observability (logging & tracing)
type observableFetcher struct {
	fetcher interfaces.Fetcher
}

// Compile-time interface check
var _ interfaces.Fetcher = (*observableFetcher)(nil)

// Wrap wraps a fetcher with observability middleware
func Wrap(fetcher interfaces.Fetcher) interfaces.Fetcher {
	return &observableFetcher{
		fetcher: fetcher,
	}
}

func (of *observableFetcher) Name() string {
	return of.fetcher.Name()
}

// Fetch retrieves content items with observability
func (of *observableFetcher) Fetch(ctx context.Context, ticker, companyName string) ([]types.ContentItem, error) {
	ctx, span := trace.StartSpan(ctx, "fetch."+of.fetcher.Name())
	defer span.End()

	logger.InfoSkip(ctx, 1, "Fetching content", "fetcher", of.fetcher.Name(), "ticker", ticker)

	items, err := of.fetcher.Fetch(ctx, ticker, companyName)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Fetch failed", err, "fetcher", of.fetcher.Name(), "ticker", ticker)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Fetch completed", "fetcher", of.fetcher.Name(), "ticker", ticker, "items", len(items))
	return items, nil
}
