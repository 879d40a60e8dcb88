package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stock-sentiment/internal/app"
	"stock-sentiment/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker>",
	Short: "Run a fresh sentiment analysis for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeSource string
	analyzeJSON   bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "all", "content source: news, reddit or all")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	components := app.Build(ctx, cfg)
	defer components.Close(ctx)

	res, err := components.Service.RefreshSentiment(ctx, args[0], analyzeSource)
	if err != nil {
		return err
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printResult(res)
	return nil
}

func printResult(res types.AggregateResult) {
	fmt.Printf("%s (%s) - %s\n", res.Ticker, res.CompanyName, res.DataSource)
	fmt.Printf("Suggestion: %s  (score %+.3f from %d items)\n",
		res.Suggestion, res.Score, res.AnalyzedCount)

	if len(res.Justifications) > 0 {
		fmt.Println("\nWhy:")
		for _, j := range res.Justifications {
			fmt.Printf("  [%s] %s (%+.2f)\n", j.Type, j.Headline, j.Score)
		}
	}

	if len(res.TopItems) > 0 {
		fmt.Println("\nAnalyzed items:")
		for _, item := range res.TopItems {
			fmt.Printf("  %+.2f  %-8s %s\n", item.Score, item.Label, item.Headline)
		}
	}
}
