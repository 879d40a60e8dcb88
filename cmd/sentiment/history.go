package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stock-sentiment/internal/app"
)

var historyCmd = &cobra.Command{
	Use:   "history <ticker>",
	Short: "Show persisted analysis runs for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st := app.BuildStore(ctx, cfg)
	if st == nil {
		return fmt.Errorf("persistence is not configured (set database.path in %s)", cfgPath)
	}
	defer st.Close()

	runs, err := st.RunHistory(ctx, strings.ToUpper(args[0]), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No analysis runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-10s score %+.3f  (%d items, %s)\n",
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Suggestion, run.Score, run.AnalyzedCount, run.DataSource)
	}
	return nil
}
