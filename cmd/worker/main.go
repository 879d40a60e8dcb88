// The worker consumes analysis requests from kafka and refreshes
// sentiment for each one. It shares the server's component graph but
// listens on nothing; results reach consumers through the store, the
// result topic and the audit log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stock-sentiment/internal/app"
	"stock-sentiment/internal/auditlog"
	"stock-sentiment/internal/config"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/stream"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := os.Getenv("SENTIMENT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		os.Exit(1)
	}

	if !cfg.Stream.Enabled {
		logger.Error(ctx, "Streaming is disabled, the worker has nothing to consume",
			"hint", "set stream.enabled in config.yaml")
		os.Exit(1)
	}

	logger.Info(ctx, "Starting sentiment worker",
		"brokers", len(cfg.Stream.Brokers),
		"topic", cfg.Stream.RequestTopic,
		"group", cfg.Stream.Group,
	)

	if cfg.Audit.Dir != "" {
		auditlog.SetDir(cfg.Audit.Dir)
	}
	if cfg.Audit.RetentionDays > 0 {
		if err := auditlog.CompressOlder(cfg.Audit.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old audit logs", "error", err)
		}
	}

	components := app.Build(ctx, cfg)
	defer components.Close(ctx)

	consumer := stream.NewConsumer(cfg.Stream.Brokers, cfg.Stream.RequestTopic, cfg.Stream.Group)
	defer consumer.Close()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	consumer.Run(ctx, func(ctx context.Context, req types.AnalysisRequest) {
		ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
		if ticker == "" {
			logger.Warn(ctx, "Skipping request without a ticker")
			return
		}
		if _, err := components.Service.RefreshSentiment(ctx, ticker, req.Source); err != nil {
			logger.ErrorWithErr(ctx, "Requested refresh failed", err, "ticker", ticker)
		}
	})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = trace.Shutdown(shutdownCtx)
}
