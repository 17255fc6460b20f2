package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rmoura/finsim/account"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify account credentials",
	Long: `Check a username/password pair against the stored credential.

Example:
  finsim login -u alice -p 's3cret!'`,
	RunE: runLogin,
}

var (
	loginUsername string
	loginPassword string
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "user", "u", "", "username (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (required)")
	loginCmd.MarkFlagRequired("user")
	loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	mgr := account.NewManager(e.store, decimal.Zero)
	u, err := mgr.Login(context.Background(), loginUsername, loginPassword)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Printf("Welcome back, %s\n", u.Username)
	fmt.Printf("  Cash: $%s\n", u.Cash.StringFixed(2))
	return nil
}
