package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmoura/finsim/portfolio"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show current holdings and total account value",
	Long: `Display the portfolio derived from the transaction ledger: every
open position priced at the current quote, plus cash and total value.

Example:
  finsim portfolio -u alice`,
	RunE: runPortfolio,
}

var portfolioUsername string

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVarP(&portfolioUsername, "user", "u", "", "acting username (required)")
	portfolioCmd.MarkFlagRequired("user")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	u, err := e.user(ctx, portfolioUsername)
	if err != nil {
		return err
	}

	proj := portfolio.NewProjector(e.store, e.quotes)
	snap, err := proj.Snapshot(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("portfolio: %w", err)
	}

	fmt.Printf("Portfolio for %s\n\n", u.Username)
	if len(snap.Positions) == 0 {
		fmt.Println("  (no open positions)")
	} else {
		fmt.Printf("  %-8s %-24s %10s %12s %14s\n", "SYMBOL", "NAME", "SHARES", "PRICE", "VALUE")
		for _, pos := range snap.Positions {
			fmt.Printf("  %-8s %-24s %10d %12s %14s\n",
				pos.Symbol, pos.Name, pos.Shares,
				"$"+pos.Price.StringFixed(2), "$"+pos.Value.StringFixed(2))
		}
	}
	fmt.Printf("\n  Cash:  $%s\n", snap.Cash.StringFixed(2))
	fmt.Printf("  Total: $%s\n", snap.Total.StringFixed(2))
	return nil
}
