package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateUsername is returned by CreateUser when the username is
	// already taken. Matching is case-sensitive: "Alice" and "alice" are
	// different accounts.
	ErrDuplicateUsername = errors.New("ledger: username already taken")

	// ErrUserNotFound is returned when no user matches the given key.
	ErrUserNotFound = errors.New("ledger: user not found")
)

// User is an account holder. Cash is the authoritative balance and is
// mutated only through ExecuteTrade.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Cash         decimal.Decimal
	CreatedAt    time.Time
}

// TransactionRecord is one ledger entry. Shares is signed: positive for a
// buy, negative for a sell. Records are append-only; holdings are always
// derived by summing them, never stored.
type TransactionRecord struct {
	ID         string
	UserID     string
	Symbol     string
	Shares     int64
	Price      decimal.Decimal
	ExecutedAt time.Time
}

// Holding is a derived net position for one symbol.
type Holding struct {
	Symbol string
	Shares int64
}

// Store is the persistence boundary for users and their transaction
// ledgers.
type Store interface {
	// CreateUser registers a new account with the given hashed credential
	// and starting cash. Returns ErrDuplicateUsername on an exact username
	// clash.
	CreateUser(ctx context.Context, username, passwordHash string, initialCash decimal.Decimal) (User, error)

	UserByName(ctx context.Context, username string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)

	// Holdings returns the net share count per symbol for a user,
	// including symbols whose net position is zero or negative.
	Holdings(ctx context.Context, userID string) ([]Holding, error)

	// Holding returns the net share count for one symbol. A symbol with no
	// transactions reads as zero.
	Holding(ctx context.Context, userID, symbol string) (int64, error)

	// Transactions returns the full ledger for a user in execution order.
	Transactions(ctx context.Context, userID string) ([]TransactionRecord, error)

	// ExecuteTrade appends rec and sets the owner's cash to newCash as a
	// single all-or-nothing unit. On any failure neither change is applied.
	ExecuteTrade(ctx context.Context, rec TransactionRecord, newCash decimal.Decimal) error

	Close() error
}
