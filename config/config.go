package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulator configuration
type Config struct {
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Quotes  QuotesConfig  `json:"quotes" yaml:"quotes"`
	Account AccountConfig `json:"account" yaml:"account"`
}

// LedgerConfig contains persistence parameters
type LedgerConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// QuotesConfig contains price-lookup parameters. The API token itself is
// never written to a file; only the name of the environment variable that
// carries it is configured.
type QuotesConfig struct {
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	TokenEnv string `json:"token_env" yaml:"token_env"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	InitialCash string `json:"initial_cash" yaml:"initial_cash"`
}

// SeedCash returns the starting balance for new accounts.
func (a AccountConfig) SeedCash() (decimal.Decimal, error) {
	return decimal.NewFromString(a.InitialCash)
}

// Token reads the quote API credential from the configured environment
// variable. A missing token is a startup failure, never a per-request one.
func (q QuotesConfig) Token() (string, error) {
	tok := os.Getenv(q.TokenEnv)
	if tok == "" {
		return "", fmt.Errorf("%s not set", q.TokenEnv)
	}
	return tok, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path is required")
	}
	if c.Quotes.TokenEnv == "" {
		return fmt.Errorf("quotes.token_env is required")
	}
	cash, err := c.Account.SeedCash()
	if err != nil {
		return fmt.Errorf("account.initial_cash must be a decimal number: %w", err)
	}
	if cash.IsNegative() {
		return fmt.Errorf("account.initial_cash must not be negative")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			DBPath: "./finance.db",
		},
		Quotes: QuotesConfig{
			TokenEnv: "API_KEY",
		},
		Account: AccountConfig{
			InitialCash: "10000",
		},
	}
}
