package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/rmoura/finsim/ledger"
)

var (
	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("account: username and password are required")

	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("account: passwords do not match")

	// ErrWeakPassword is returned when the password has no special character.
	ErrWeakPassword = errors.New("account: password must contain a special character")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so a caller cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("account: invalid username or password")
)

// specialChars is the required special-character set for passwords.
var specialChars = regexp.MustCompile(`[@_!#$%^&*()<>?/\\|}{~:]`)

// Manager handles registration and authentication. Hashing is delegated
// to bcrypt; plaintext passwords never reach the store.
type Manager struct {
	store       ledger.Store
	initialCash decimal.Decimal
}

// NewManager creates a Manager that seeds new accounts with initialCash.
func NewManager(store ledger.Store, initialCash decimal.Decimal) *Manager {
	return &Manager{store: store, initialCash: initialCash}
}

// Register creates a new account. Validation order follows the signup
// form: required fields, confirmation match, password strength, then the
// case-sensitive username uniqueness check at the store.
func (m *Manager) Register(ctx context.Context, username, password, confirm string) (ledger.User, error) {
	if username == "" || password == "" || confirm == "" {
		return ledger.User{}, ErrInvalidInput
	}
	if password != confirm {
		return ledger.User{}, ErrPasswordMismatch
	}
	if !specialChars.MatchString(password) {
		return ledger.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ledger.User{}, fmt.Errorf("hash password: %w", err)
	}

	return m.store.CreateUser(ctx, username, string(hash), m.initialCash)
}

// Login verifies a credential pair and returns the account on success.
func (m *Manager) Login(ctx context.Context, username, password string) (ledger.User, error) {
	if username == "" || password == "" {
		return ledger.User{}, ErrInvalidCredentials
	}

	u, err := m.store.UserByName(ctx, username)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			return ledger.User{}, ErrInvalidCredentials
		}
		return ledger.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ledger.User{}, ErrInvalidCredentials
	}
	return u, nil
}
