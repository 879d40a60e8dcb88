package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stock-sentiment/internal/app"
)

var infoCmd = &cobra.Command{
	Use:   "info <ticker>",
	Short: "Look up company and quote information",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var infoJSON bool

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print the info as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	market := app.BuildMarket(ctx, cfg)
	info, err := market.StockInfo(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up %s: %w", args[0], err)
	}

	if infoJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s - %s\n", info.Symbol, info.CompanyName)
	fmt.Printf("Price: %.2f %s\n", info.Price, info.Currency)
	if info.Sector != "" {
		fmt.Printf("Sector: %s / %s\n", info.Sector, info.Industry)
	}
	if info.MarketCap > 0 {
		fmt.Printf("Market cap: %d\n", info.MarketCap)
	}
	if info.SMA20 != 0 || info.RSI14 != 0 {
		fmt.Printf("SMA20: %.2f  SMA50: %.2f  RSI14: %.1f\n", info.SMA20, info.SMA50, info.RSI14)
	}
	if info.Error != "" {
		fmt.Printf("Note: %s\n", info.Error)
	}
	return nil
}
