package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmoura/finsim/account"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new trading account",
	Long: `Register a new account with a seeded cash balance.

The password must contain at least one special character. Usernames are
case-sensitive and must be unique.

Example:
  finsim register -u alice -p 's3cret!' -c 's3cret!'`,
	RunE: runRegister,
}

var (
	registerUsername string
	registerPassword string
	registerConfirm  string
)

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVarP(&registerUsername, "user", "u", "", "username (required)")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password (required)")
	registerCmd.Flags().StringVarP(&registerConfirm, "confirm", "c", "", "password confirmation (required)")
	registerCmd.MarkFlagRequired("user")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("confirm")
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	seed, err := e.cfg.Account.SeedCash()
	if err != nil {
		return fmt.Errorf("seed cash: %w", err)
	}

	mgr := account.NewManager(e.store, seed)
	u, err := mgr.Register(context.Background(), registerUsername, registerPassword, registerConfirm)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Printf("Registered %s (account %s)\n", u.Username, u.ID)
	fmt.Printf("  Starting cash: $%s\n", u.Cash.StringFixed(2))
	return nil
}
