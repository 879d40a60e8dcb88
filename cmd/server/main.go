package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-sentiment/internal/app"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/sentiment"
	"stock-sentiment/internal/server"
	"stock-sentiment/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	logger.Info(ctx, "Starting sentiment server",
		"port", cfg.Server.Port,
		"classifier", cfg.Classifier.Provider,
		"market", cfg.Market.Provider,
		"watchlist", len(cfg.Watchlist),
	)

	prepareAuditLog(ctx, cfg)

	components := app.Build(ctx, cfg)
	defer components.Close(ctx)

	srv := server.New(components.Service, components.Market, components.Store, cfg)

	runner := sentiment.NewRunner(components.Service, cfg.Watchlist, sentiment.SourceAll,
		time.Duration(cfg.RefreshMinutes)*time.Minute)
	go runner.Run(ctx)

	// Cancel the root context on SIGINT/SIGTERM; the server drains
	// in-flight requests before returning.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Server exited with error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = trace.Shutdown(shutdownCtx)
}
