// The sentiment CLI runs one-shot analyses and lookups against the
// same component graph the server uses.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock-sentiment/internal/auditlog"
	"stock-sentiment/internal/config"
	"stock-sentiment/internal/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Stock sentiment analysis from news and social media",
	Long: `Fetches recent news and reddit chatter about a ticker, scores it with
the configured classifier, and aggregates everything into a single
recommendation with supporting evidence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		// Keep pipeline logs out of the human-readable output unless
		// the user asks for them.
		if os.Getenv("LOG_LEVEL") == "" {
			os.Setenv("LOG_LEVEL", "warn")
		}
		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if cfgPath == "" {
			cfgPath = os.Getenv("SENTIMENT_CONFIG")
		}
		if cfgPath == "" {
			cfgPath = "config.yaml"
		}
		var err error
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		if cfg.Audit.Dir != "" {
			auditlog.SetDir(cfg.Audit.Dir)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
