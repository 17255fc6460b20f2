package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rmoura/finsim/internal/id"
)

// SQLite is the Store implementation backed by a local SQLite database.
// Monetary columns are stored as decimal strings, never as REAL, so no
// float rounding ever reaches the ledger.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateUser(ctx context.Context, username, passwordHash string, initialCash decimal.Decimal) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, username).Scan(&existing)
	if err == nil {
		return User{}, ErrDuplicateUsername
	}
	if err != sql.ErrNoRows {
		return User{}, err
	}

	u := User{
		ID:           id.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         initialCash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, cash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Cash.String(), u.CreatedAt,
	)
	if err != nil {
		return User{}, err
	}

	return u, tx.Commit()
}

func (s *SQLite) UserByName(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, cash, created_at
		FROM users
		WHERE username = ?`, username)
	return scanUser(row)
}

func (s *SQLite) UserByID(ctx context.Context, userID string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, cash, created_at
		FROM users
		WHERE id = ?`, userID)
	return scanUser(row)
}

func (s *SQLite) Holdings(ctx context.Context, userID string) ([]Holding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, SUM(shares)
		FROM transactions
		WHERE user_id = ?
		GROUP BY symbol
		ORDER BY symbol ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holding
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) Holding(ctx context.Context, userID, symbol string) (int64, error) {
	var shares int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(shares), 0)
		FROM transactions
		WHERE user_id = ? AND symbol = ?`, userID, symbol).Scan(&shares)
	if err != nil {
		return 0, err
	}
	return shares, nil
}

func (s *SQLite) Transactions(ctx context.Context, userID string) ([]TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, symbol, shares, price, executed_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY executed_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var (
			rec   TransactionRecord
			price string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Symbol, &rec.Shares, &price, &rec.ExecutedAt); err != nil {
			return nil, err
		}
		rec.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: bad price %q: %w", rec.ID, price, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) ExecuteTrade(ctx context.Context, rec TransactionRecord, newCash decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, symbol, shares, price, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Symbol, rec.Shares, rec.Price.String(), rec.ExecutedAt,
	)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET cash = ? WHERE id = ?`, newCash.String(), rec.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}

	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u    User
		cash string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &cash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.Cash, err = decimal.NewFromString(cash)
	if err != nil {
		return User{}, fmt.Errorf("user %s: bad cash %q: %w", u.ID, cash, err)
	}
	return u, nil
}
