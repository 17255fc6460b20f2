package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rmoura/finsim/trade"
)

var buyCmd = &cobra.Command{
	Use:   "buy <symbol> <shares>",
	Short: "Buy shares at the current quoted price",
	Long: `Buy shares of a stock at its current quoted price.

The purchase is validated against the account's cash balance and recorded
in the transaction ledger atomically.

Example:
  finsim buy AAPL 10 -u alice`,
	Args: cobra.ExactArgs(2),
	RunE: runBuy,
}

var buyUsername string

func init() {
	rootCmd.AddCommand(buyCmd)

	buyCmd.Flags().StringVarP(&buyUsername, "user", "u", "", "acting username (required)")
	buyCmd.MarkFlagRequired("user")
}

func runBuy(cmd *cobra.Command, args []string) error {
	shares, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("shares must be an integer: %w", err)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	u, err := e.user(ctx, buyUsername)
	if err != nil {
		return err
	}

	desk := trade.NewDesk(e.store, e.quotes)
	r, err := desk.Buy(ctx, u.ID, args[0], shares)
	if err != nil {
		return fmt.Errorf("buy: %w", err)
	}

	fmt.Printf("Bought %d %s @ $%s\n", r.Shares, r.Symbol, r.Price.StringFixed(2))
	fmt.Printf("  Cost: $%s\n", r.Amount.StringFixed(2))
	fmt.Printf("  Cash: $%s\n", r.Cash.StringFixed(2))
	return nil
}
