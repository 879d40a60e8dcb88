package main

import (
	"context"
	"fmt"
	"os"

	"stock-sentiment/internal/auditlog"
	"stock-sentiment/internal/config"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads the environment and initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*config.Config, error) {
	path := os.Getenv("SENTIMENT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// prepareAuditLog points the audit journal at the configured directory
// and compresses files older than the retention window
func prepareAuditLog(ctx context.Context, cfg *config.Config) {
	if cfg.Audit.Dir != "" {
		auditlog.SetDir(cfg.Audit.Dir)
	}
	if cfg.Audit.RetentionDays > 0 {
		if err := auditlog.CompressOlder(cfg.Audit.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old audit logs", "error", err)
		}
	}
}
