package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <symbol>",
	Short: "Look up the current price for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	q, err := e.quotes.GetQuote(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}

	fmt.Printf("%s (%s): $%s\n", q.Name, q.Symbol, q.Price.StringFixed(2))
	return nil
}
