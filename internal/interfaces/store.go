package interfaces

import (
	"context"

	"stock-sentiment/internal/types"
)

// Store persists fetched items, their sentiment, and aggregation runs.
// The engine never depends on it; persistence failures are non-fatal.
type Store interface {
	UpsertStock(ctx context.Context, ticker, companyName string) error
	SaveItems(ctx context.Context, ticker string, items []types.AnalyzedItem) error
	RecentItems(ctx context.Context, ticker string, sourceType string, limit int) ([]types.AnalyzedItem, error)
	SaveRun(ctx context.Context, run types.AnalysisRun) error
	RunHistory(ctx context.Context, ticker string, limit int) ([]types.AnalysisRun, error)
	Close() error
}
