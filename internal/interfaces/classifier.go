package interfaces

import (
	"context"

	"stock-sentiment/internal/types"
)

// Classifier maps a batch of texts to (label, confidence) pairs in the
// same order. Labels outside {positive, negative, neutral} are allowed
// here; the engine's normalizer handles them.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]types.Classification, error)
	Name() string
}
