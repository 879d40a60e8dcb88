package interfaces

import (
	"context"

	"stock-sentiment/internal/types"
)

// Publisher emits fresh aggregation results to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, res types.AggregateResult) error
	Close() error
}
