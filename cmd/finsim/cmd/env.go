package cmd

import (
	"context"
	"fmt"

	"github.com/rmoura/finsim/config"
	"github.com/rmoura/finsim/iex"
	"github.com/rmoura/finsim/ledger"
	"github.com/rmoura/finsim/market"
)

// env bundles the collaborators every subcommand needs: config, the
// ledger store and the quote client. Building it fails fast when the API
// credential is missing, mirroring startup of the hosted variant.
type env struct {
	cfg    *config.Config
	store  *ledger.SQLite
	quotes market.QuoteSource
}

func openEnv() (*env, error) {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	token, err := cfg.Quotes.Token()
	if err != nil {
		return nil, fmt.Errorf("quote API credential: %w", err)
	}

	var quotes *iex.Client
	if cfg.Quotes.BaseURL != "" {
		quotes = iex.NewClientWithBaseURL(token, cfg.Quotes.BaseURL)
	} else {
		quotes = iex.NewClient(token)
	}

	store, err := ledger.NewSQLite(cfg.Ledger.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	return &env{cfg: cfg, store: store, quotes: quotes}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// user resolves the acting account from the --user flag value.
func (e *env) user(ctx context.Context, username string) (ledger.User, error) {
	u, err := e.store.UserByName(ctx, username)
	if err != nil {
		return ledger.User{}, fmt.Errorf("user %q: %w", username, err)
	}
	return u, nil
}
