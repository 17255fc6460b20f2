package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List all recorded transactions for an account",
	Long: `Print the full transaction ledger for an account in execution
order. Positive share counts are buys, negative are sells.

Example:
  finsim history -u alice`,
	RunE: runHistory,
}

var historyUsername string

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyUsername, "user", "u", "", "acting username (required)")
	historyCmd.MarkFlagRequired("user")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	u, err := e.user(ctx, historyUsername)
	if err != nil {
		return err
	}

	txs, err := e.store.Transactions(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if len(txs) == 0 {
		fmt.Println("(no transactions)")
		return nil
	}

	fmt.Printf("%-8s %10s %12s  %s\n", "SYMBOL", "SHARES", "PRICE", "EXECUTED")
	for _, tx := range txs {
		fmt.Printf("%-8s %10d %12s  %s\n",
			tx.Symbol, tx.Shares, "$"+tx.Price.StringFixed(2),
			tx.ExecutedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
