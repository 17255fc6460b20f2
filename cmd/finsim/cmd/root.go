package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finsim",
	Short: "A stock-trading simulator with a ledger-backed portfolio",
	Long: `Finsim is a stock-trading simulator written in Go.

It provides tools for:
  - Registering simulated trading accounts with seeded cash
  - Looking up live stock quotes
  - Buying and selling shares at quoted prices
  - Viewing portfolio holdings, valuations and transaction history

All holdings are derived from an append-only transaction ledger stored in
SQLite; quotes come from an external price API configured via API_KEY.`,
}

var cfgPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "./finsim.yaml", "path to config file (YAML or JSON)")
}
