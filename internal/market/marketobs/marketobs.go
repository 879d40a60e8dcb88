// Package marketobs wraps market data providers with logging and tracing.
package marketobs

import (
	"context"

	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

// observableMarketData wraps a MarketData with observability (logging & tracing)
type observableMarketData struct {
	name string
	md   interfaces.MarketData
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market data provider with observability middleware. The
// interface carries no Name, so the caller passes one.
func Wrap(md interfaces.MarketData, name string) interfaces.MarketData {
	return &observableMarketData{
		name: name,
		md:   md,
	}
}

// StockInfo looks up quote data with observability
func (om *observableMarketData) StockInfo(ctx context.Context, symbol string) (*types.StockInfo, error) {
	ctx, span := trace.StartSpan(ctx, "market."+om.name)
	defer span.End()

	logger.InfoSkip(ctx, 1, "Looking up stock info", "provider", om.name, "symbol", symbol)

	info, err := om.md.StockInfo(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Stock info lookup failed", err, "provider", om.name, "symbol", symbol)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Stock info resolved", "provider", om.name, "symbol", symbol, "price", info.Price)
	return info, nil
}
