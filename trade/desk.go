package trade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmoura/finsim/internal/id"
	"github.com/rmoura/finsim/ledger"
	"github.com/rmoura/finsim/market"
)

var (
	// ErrInvalidInput is returned for a missing/unknown symbol or a
	// non-positive share count.
	ErrInvalidInput = errors.New("trade: a valid symbol and a positive share count are required")

	// ErrInsufficientFunds is returned when a buy costs more than the
	// user's cash.
	ErrInsufficientFunds = errors.New("trade: not enough cash")

	// ErrInsufficientShares is returned when a sell exceeds the user's net
	// holding. A symbol the user never traded counts as a holding of zero.
	ErrInsufficientShares = errors.New("trade: not enough shares")
)

// Receipt describes an executed trade. Shares carries the ledger sign:
// positive for buys, negative for sells. Amount is the cost of a buy or
// the proceeds of a sell, and Cash is the balance after execution.
type Receipt struct {
	TransactionID string
	Symbol        string
	Shares        int64
	Price         decimal.Decimal
	Amount        decimal.Decimal
	Cash          decimal.Decimal
	ExecutedAt    time.Time
}

// Desk validates and executes buy/sell instructions against the ledger.
//
// Each operation fetches the quote once and records that same price, so
// the price that was validated is the price that hits the ledger. A
// per-user mutex serializes the read-validate-write sequence for one
// user; trades for different users never contend.
type Desk struct {
	store  ledger.Store
	quotes market.QuoteSource

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

func NewDesk(store ledger.Store, quotes market.QuoteSource) *Desk {
	return &Desk{
		store:  store,
		quotes: quotes,
		users:  make(map[string]*sync.Mutex),
	}
}

func (d *Desk) userLock(userID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.users[userID]
	if !ok {
		l = &sync.Mutex{}
		d.users[userID] = l
	}
	return l
}

// Buy purchases shares of symbol at the current quoted price.
func (d *Desk) Buy(ctx context.Context, userID, symbol string, shares int64) (Receipt, error) {
	symbol = market.NormalizeSymbol(symbol)
	if symbol == "" || shares <= 0 {
		return Receipt{}, ErrInvalidInput
	}

	lock := d.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	q, err := d.quotes.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, market.ErrSymbolNotFound) {
			return Receipt{}, fmt.Errorf("%w: unknown symbol %q", ErrInvalidInput, symbol)
		}
		return Receipt{}, fmt.Errorf("quote %s: %w", symbol, err)
	}

	u, err := d.store.UserByID(ctx, userID)
	if err != nil {
		return Receipt{}, err
	}

	cost := q.Price.Mul(decimal.NewFromInt(shares))
	if cost.GreaterThan(u.Cash) {
		return Receipt{}, ErrInsufficientFunds
	}

	rec := ledger.TransactionRecord{
		ID:         id.New(),
		UserID:     userID,
		Symbol:     symbol,
		Shares:     shares,
		Price:      q.Price,
		ExecutedAt: time.Now().UTC(),
	}
	newCash := u.Cash.Sub(cost)

	if err := d.store.ExecuteTrade(ctx, rec, newCash); err != nil {
		return Receipt{}, err
	}

	return Receipt{
		TransactionID: rec.ID,
		Symbol:        symbol,
		Shares:        rec.Shares,
		Price:         q.Price,
		Amount:        cost,
		Cash:          newCash,
		ExecutedAt:    rec.ExecutedAt,
	}, nil
}

// Sell disposes of shares of symbol at the current quoted price. The net
// holding is derived from the transaction log; selling more than it
// allows fails before any quote is fetched.
func (d *Desk) Sell(ctx context.Context, userID, symbol string, shares int64) (Receipt, error) {
	symbol = market.NormalizeSymbol(symbol)
	if symbol == "" || shares <= 0 {
		return Receipt{}, ErrInvalidInput
	}

	lock := d.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	held, err := d.store.Holding(ctx, userID, symbol)
	if err != nil {
		return Receipt{}, err
	}
	if shares > held {
		return Receipt{}, ErrInsufficientShares
	}

	q, err := d.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return Receipt{}, fmt.Errorf("quote %s: %w", symbol, err)
	}

	u, err := d.store.UserByID(ctx, userID)
	if err != nil {
		return Receipt{}, err
	}

	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	rec := ledger.TransactionRecord{
		ID:         id.New(),
		UserID:     userID,
		Symbol:     symbol,
		Shares:     -shares,
		Price:      q.Price,
		ExecutedAt: time.Now().UTC(),
	}
	newCash := u.Cash.Add(proceeds)

	if err := d.store.ExecuteTrade(ctx, rec, newCash); err != nil {
		return Receipt{}, err
	}

	return Receipt{
		TransactionID: rec.ID,
		Symbol:        symbol,
		Shares:        rec.Shares,
		Price:         q.Price,
		Amount:        proceeds,
		Cash:          newCash,
		ExecutedAt:    rec.ExecutedAt,
	}, nil
}
