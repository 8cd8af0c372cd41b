package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "Risk-gated intraday breakout signal engine",
	Long: `bot scans a screened watchlist for momentum breakout setups inside a
morning entry window, sizes positions against per-trade risk, and refuses to
trade once the daily loss breaker trips.

Orders are simulated unless mode is LIVE; every signal and order ack lands in
the sqlite journal.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "config.yaml", "path to config file")
}
