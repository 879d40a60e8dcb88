// Package classifierobs wraps classifiers with logging and tracing.
package classifierobs

import (
	"context"

	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

// observableClassifier wraps a Classifier with observability (logging & tracing)
type observableClassifier struct {
	classifier interfaces.Classifier
}

// Compile-time interface check
var _ interfaces.Classifier = (*observableClassifier)(nil)

// Wrap wraps a classifier with observability middleware
func Wrap(classifier interfaces.Classifier) interfaces.Classifier {
	return &observableClassifier{
		classifier: classifier,
	}
}

func (oc *observableClassifier) Name() string {
	return oc.classifier.Name()
}

// Classify labels a batch of texts with observability
func (oc *observableClassifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	ctx, span := trace.StartSpan(ctx, "classify."+oc.classifier.Name())
	defer span.End()

	logger.InfoSkip(ctx, 1, "Classifying batch", "classifier", oc.classifier.Name(), "texts", len(texts))

	results, err := oc.classifier.Classify(ctx, texts)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Classification failed", err, "classifier", oc.classifier.Name(), "texts", len(texts))
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Classification completed", "classifier", oc.classifier.Name(), "results", len(results))
	return results, nil
}
