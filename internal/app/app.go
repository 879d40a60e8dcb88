// Package app wires the application components from configuration.
// The server, the worker and the CLI all build the same graph.
package app

import (
	"context"
	"os"
	"time"

	"stock-sentiment/internal/classifier"
	"stock-sentiment/internal/classifier/classifierobs"
	"stock-sentiment/internal/config"
	"stock-sentiment/internal/engine"
	"stock-sentiment/internal/fetch"
	"stock-sentiment/internal/fetch/fetchobs"
	"stock-sentiment/internal/fetch/news"
	"stock-sentiment/internal/fetch/reddit"
	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/market/kite"
	"stock-sentiment/internal/market/marketobs"
	"stock-sentiment/internal/market/yahoo"
	"stock-sentiment/internal/sentiment"
	"stock-sentiment/internal/store"
	"stock-sentiment/internal/stream"
)

// Components holds the wired collaborators. Store, Market and
// Publisher are nil when disabled or unavailable; the service treats
// them as optional.
type Components struct {
	Store      interfaces.Store
	Market     interfaces.MarketData
	Fetchers   []interfaces.Fetcher
	Classifier interfaces.Classifier
	Publisher  interfaces.Publisher
	Engine     *engine.Engine
	Service    *sentiment.Service
}

// Build wires every component from the configuration.
func Build(ctx context.Context, cfg *config.Config) *Components {
	limiter := fetch.DefaultProviderLimiter()

	c := &Components{
		Store:      initializeStore(ctx, cfg),
		Market:     initializeMarket(ctx, cfg, limiter),
		Fetchers:   initializeFetchers(ctx, cfg, limiter),
		Classifier: initializeClassifier(ctx, cfg),
		Publisher:  initializePublisher(ctx, cfg),
		Engine:     buildEngine(cfg),
	}

	c.Service = sentiment.NewService(sentiment.Params{
		Fetchers:   c.Fetchers,
		Classifier: c.Classifier,
		Engine:     c.Engine,
		Market:     c.Market,
		Store:      c.Store,
		Publisher:  c.Publisher,
		CacheTTL:   time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
	})
	return c
}

// BuildMarket wires only the market data provider, for callers that
// never run the analysis pipeline.
func BuildMarket(ctx context.Context, cfg *config.Config) interfaces.MarketData {
	return initializeMarket(ctx, cfg, fetch.DefaultProviderLimiter())
}

// BuildStore wires only the persistence layer.
func BuildStore(ctx context.Context, cfg *config.Config) interfaces.Store {
	return initializeStore(ctx, cfg)
}

// Close releases every component holding a connection.
func (c *Components) Close(ctx context.Context) {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.Warn(ctx, "Closing store failed", "error", err)
		}
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warn(ctx, "Closing publisher failed", "error", err)
		}
	}
}

// initializeStore opens the SQLite store; persistence is optional and
// an open failure only disables it
func initializeStore(ctx context.Context, cfg *config.Config) interfaces.Store {
	if cfg.Database.Path == "" {
		logger.Info(ctx, "Persistence disabled, no database path configured")
		return nil
	}
	st, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open store, continuing without persistence", err,
			"path", cfg.Database.Path)
		return nil
	}
	logger.Info(ctx, "SQLite store ready", "path", cfg.Database.Path)
	return st
}

// initializeMarket selects the market data provider with observability
func initializeMarket(ctx context.Context, cfg *config.Config, limiter *fetch.ProviderLimiter) interfaces.MarketData {
	if cfg.Market.Provider == "KITE" {
		apiKey := os.Getenv("KITE_API_KEY")
		accessToken := os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey != "" && accessToken != "" {
			md := kite.NewProvider(kite.Params{
				APIKey:      apiKey,
				AccessToken: accessToken,
				Exchange:    cfg.Market.Exchange,
			})
			return marketobs.Wrap(md, "kite")
		}
		logger.Warn(ctx, "Kite selected but credentials missing, falling back to Yahoo")
	}

	md := yahoo.NewProvider(yahoo.Config{}, limiter)
	return marketobs.Wrap(md, "yahoo")
}

// initializeFetchers builds the enabled content fetchers with observability
func initializeFetchers(ctx context.Context, cfg *config.Config, limiter *fetch.ProviderLimiter) []interfaces.Fetcher {
	var fetchers []interfaces.Fetcher

	if cfg.News.Enabled {
		f := news.NewFetcher(news.Config{
			APIKey:          os.Getenv("NEWS_API_KEY"),
			BaseURL:         cfg.News.APIBaseURL,
			MaxArticles:     cfg.News.MaxArticles,
			DomainBlacklist: cfg.News.DomainBlacklist,
			SourceBlacklist: cfg.News.SourceBlacklist,
			ScrapeFallback:  cfg.News.ScrapeFallback,
		}, limiter)
		fetchers = append(fetchers, fetchobs.Wrap(f))
	}

	if cfg.Reddit.Enabled {
		f := reddit.NewFetcher(reddit.Config{
			Subreddits:      cfg.Reddit.Subreddits,
			Timespan:        cfg.Reddit.Timespan,
			PostLimit:       cfg.Reddit.PostLimit,
			CommentsPerPost: cfg.Reddit.CommentsPerPost,
		}, limiter)
		fetchers = append(fetchers, fetchobs.Wrap(f))
	}

	if len(fetchers) == 0 {
		logger.Warn(ctx, "No content fetchers enabled - every analysis will come back neutral")
	}
	return fetchers
}

// initializeClassifier selects the classifier with observability
func initializeClassifier(ctx context.Context, cfg *config.Config) interfaces.Classifier {
	return classifierobs.Wrap(classifier.New(ctx, cfg))
}

// initializePublisher connects the kafka result publisher when
// streaming is enabled
func initializePublisher(ctx context.Context, cfg *config.Config) interfaces.Publisher {
	if !cfg.Stream.Enabled {
		return nil
	}
	logger.Info(ctx, "Publishing results to kafka",
		"brokers", len(cfg.Stream.Brokers), "topic", cfg.Stream.ResultTopic)
	return stream.NewPublisher(cfg.Stream.Brokers, cfg.Stream.ResultTopic)
}

// buildEngine maps config tuning onto engine parameters
func buildEngine(cfg *config.Config) *engine.Engine {
	return engine.New(engine.Params{
		HalfLifeHours:     cfg.Engine.HalfLifeHours,
		IntensityBoost:    cfg.Engine.IntensityBoost,
		MinTextLength:     cfg.Engine.MinArticleLength,
		MinMentions:       cfg.Engine.MinMentions,
		MaxJustifications: cfg.Engine.MaxJustifications,
		MaxReportedItems:  cfg.Engine.MaxReportedItems,
		Thresholds: engine.Thresholds{
			StrongBuy: cfg.Engine.Thresholds.StrongBuy,
			Buy:       cfg.Engine.Thresholds.Buy,
			Hold:      cfg.Engine.Thresholds.Hold,
			Sell:      cfg.Engine.Thresholds.Sell,
		},
	})
}
