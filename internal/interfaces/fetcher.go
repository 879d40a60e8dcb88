package interfaces

import (
	"context"

	"stock-sentiment/internal/types"
)

// Fetcher retrieves raw content items about a security from one
// upstream source (news API, site scraping, reddit, ...).
type Fetcher interface {
	Fetch(ctx context.Context, ticker, companyName string) ([]types.ContentItem, error)
	Name() string
}
