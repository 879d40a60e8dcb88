// Package classifier builds the sentiment classifier named by config.
package classifier

import (
	"context"
	"time"

	"stock-sentiment/internal/classifier/claude"
	"stock-sentiment/internal/classifier/huggingface"
	"stock-sentiment/internal/classifier/lexicon"
	"stock-sentiment/internal/classifier/noop"
	"stock-sentiment/internal/classifier/openai"
	"stock-sentiment/internal/config"
	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
)

// New selects a provider by cfg.Classifier.Provider. The result is not
// wrapped; callers add classifierobs at wiring time.
func New(ctx context.Context, cfg *config.Config) interfaces.Classifier {
	delay := time.Duration(cfg.Classifier.RequestDelayMs) * time.Millisecond
	timeout := time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second

	switch cfg.Classifier.Provider {
	case "OPENAI":
		return openai.NewClassifier(openai.Config{
			Model:        cfg.Classifier.Model,
			RequestDelay: delay,
			Timeout:      timeout,
		})
	case "CLAUDE":
		return claude.NewClassifier(claude.Config{
			Model:        cfg.Classifier.Model,
			RequestDelay: delay,
			Timeout:      timeout,
		})
	case "HUGGINGFACE":
		return huggingface.NewClassifier(huggingface.Config{
			Model:   cfg.Classifier.Model,
			Timeout: timeout,
		})
	case "NOOP":
		logger.Warn(ctx, "Noop classifier configured - every text scores neutral")
		return noop.NewClassifier()
	default:
		return lexicon.NewClassifier()
	}
}
