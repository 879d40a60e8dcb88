// Package noop provides the classifier used when no provider is
// configured. Every text comes back neutral so the pipeline can run
// end to end without spending tokens.
package noop

import (
	"context"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Name() string {
	return "noop"
}

func (c *Classifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	logger.Debug(ctx, "Noop classifier called - marking everything neutral", "texts", len(texts))
	out := make([]types.Classification, len(texts))
	for i := range out {
		out[i] = types.Classification{Label: "neutral", Confidence: 0.0}
	}
	return out, nil
}
