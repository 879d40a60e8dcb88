package interfaces

import (
	"context"

	"stock-sentiment/internal/types"
)

// MarketData looks up company/quote information for a symbol.
type MarketData interface {
	StockInfo(ctx context.Context, symbol string) (*types.StockInfo, error)
}
