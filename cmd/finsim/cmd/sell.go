package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rmoura/finsim/trade"
)

var sellCmd = &cobra.Command{
	Use:   "sell <symbol> <shares>",
	Short: "Sell shares at the current quoted price",
	Long: `Sell shares of a held stock at its current quoted price.

The sale is validated against the net holding derived from the
transaction ledger; selling more shares than are held is rejected.

Example:
  finsim sell AAPL 4 -u alice`,
	Args: cobra.ExactArgs(2),
	RunE: runSell,
}

var sellUsername string

func init() {
	rootCmd.AddCommand(sellCmd)

	sellCmd.Flags().StringVarP(&sellUsername, "user", "u", "", "acting username (required)")
	sellCmd.MarkFlagRequired("user")
}

func runSell(cmd *cobra.Command, args []string) error {
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
	u, err := e.user(ctx, sellUsername)
	if err != nil {
		return err
	}

	desk := trade.NewDesk(e.store, e.quotes)
	r, err := desk.Sell(ctx, u.ID, args[0], shares)
	if err != nil {
		return fmt.Errorf("sell: %w", err)
	}

	fmt.Printf("Sold %d %s @ $%s\n", -r.Shares, r.Symbol, r.Price.StringFixed(2))
	fmt.Printf("  Proceeds: $%s\n", r.Amount.StringFixed(2))
	fmt.Printf("  Cash: $%s\n", r.Cash.StringFixed(2))
	return nil
}
