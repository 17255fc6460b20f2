package trade

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmoura/finsim/ledger"
	"github.com/rmoura/finsim/market"
)

// stubQuotes serves fixed prices; unknown symbols report not-found.
type stubQuotes struct {
	prices map[string]string
	err    error
}

func (s *stubQuotes) GetQuote(ctx context.Context, symbol string) (market.Quote, error) {
	if s.err != nil {
		return market.Quote{}, s.err
	}
	p, ok := s.prices[symbol]
	if !ok {
		return market.Quote{}, fmt.Errorf("%s: %w", symbol, market.ErrSymbolNotFound)
	}
	price, err := decimal.NewFromString(p)
	if err != nil {
		return market.Quote{}, err
	}
	return market.Quote{Symbol: symbol, Name: symbol + " Inc", Price: price}, nil
}

func newTestDesk(t *testing.T, quotes market.QuoteSource) (*Desk, ledger.Store, ledger.User) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := ledger.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	u, err := store.CreateUser(context.Background(), "trader", "hash", decimal.NewFromInt(10000))
	require.NoError(t, err)

	return NewDesk(store, quotes), store, u
}

func TestBuy(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	r, err := desk.Buy(ctx, u.ID, "aapl", 10)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, int64(10), r.Shares)
	assert.Equal(t, "150", r.Price.String())
	assert.Equal(t, "1500", r.Amount.String())
	assert.Equal(t, "8500", r.Cash.String())
	assert.NotEmpty(t, r.TransactionID)

	got, err := store.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "8500", got.Cash.String())

	held, err := store.Holding(ctx, u.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(10), held)
}

func TestBuyInsufficientFunds(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	// 67 * 150 = 10050 > 10000
	_, err := desk.Buy(ctx, u.ID, "AAPL", 67)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// No partial write.
	got, err := store.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000", got.Cash.String())

	txs, err := store.Transactions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)

	// 66 * 150 = 9900 fits exactly within budget.
	_, err = desk.Buy(ctx, u.ID, "AAPL", 66)
	assert.NoError(t, err)
}

func TestBuyInvalidInput(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, _, u := newTestDesk(t, quotes)
	ctx := context.Background()

	_, err := desk.Buy(ctx, u.ID, "", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = desk.Buy(ctx, u.ID, "AAPL", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = desk.Buy(ctx, u.ID, "AAPL", -5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Unresolvable symbol is invalid input, not a lookup fault.
	_, err = desk.Buy(ctx, u.ID, "NOPE", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuyLookupFailure(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{err: errors.New("connection refused")}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	_, err := desk.Buy(ctx, u.ID, "AAPL", 10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "quote AAPL")

	got, err := store.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000", got.Cash.String())
}

func TestSell(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	_, err := desk.Buy(ctx, u.ID, "AAPL", 10)
	require.NoError(t, err)

	quotes.prices["AAPL"] = "200"

	r, err := desk.Sell(ctx, u.ID, "AAPL", 4)
	require.NoError(t, err)

	assert.Equal(t, int64(-4), r.Shares)
	assert.Equal(t, "800", r.Amount.String())
	assert.Equal(t, "9300", r.Cash.String())

	held, err := store.Holding(ctx, u.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(6), held)
}

func TestSellInsufficientShares(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	_, err := desk.Buy(ctx, u.ID, "AAPL", 5)
	require.NoError(t, err)

	_, err = desk.Sell(ctx, u.ID, "AAPL", 6)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	// Ledger and cash unchanged by the failed sell.
	got, err := store.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "9250", got.Cash.String())

	held, err := store.Holding(ctx, u.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(5), held)
}

func TestSellSymbolNeverHeld(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150", "NFLX": "400"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	// The symbol is absent from the ledger entirely: holding reads as
	// zero, so any positive sell is rejected rather than silently noop'd.
	_, err := desk.Sell(ctx, u.ID, "NFLX", 1)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	txs, err := store.Transactions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSellClosedPosition(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, _, u := newTestDesk(t, quotes)
	ctx := context.Background()

	_, err := desk.Buy(ctx, u.ID, "AAPL", 3)
	require.NoError(t, err)
	_, err = desk.Sell(ctx, u.ID, "AAPL", 3)
	require.NoError(t, err)

	// Net holding is exactly zero; selling must still be rejected.
	_, err = desk.Sell(ctx, u.ID, "AAPL", 1)
	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestSellInvalidInput(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, _, u := newTestDesk(t, quotes)
	ctx := context.Background()

	_, err := desk.Sell(ctx, u.ID, "", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = desk.Sell(ctx, u.ID, "AAPL", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// The scenario from the ledger's acceptance checklist: 10000 starting
// cash, buy 10 AAPL at 150, sell 4 at 200, then oversell.
func TestBuySellScenario(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	r, err := desk.Buy(ctx, u.ID, "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, "8500", r.Cash.String())

	quotes.prices["AAPL"] = "200"

	r, err = desk.Sell(ctx, u.ID, "AAPL", 4)
	require.NoError(t, err)
	assert.Equal(t, "9300", r.Cash.String())

	_, err = desk.Sell(ctx, u.ID, "AAPL", 10)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	got, err := store.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "9300", got.Cash.String())

	held, err := store.Holding(ctx, u.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(6), held)

	// Holding equals the signed sum across the recorded transactions.
	txs, err := store.Transactions(ctx, u.ID)
	require.NoError(t, err)
	var sum int64
	for _, tx := range txs {
		sum += tx.Shares
	}
	assert.Equal(t, held, sum)
}

func TestTradesIsolatedBetweenUsers(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{prices: map[string]string{"AAPL": "150"}}
	desk, store, u := newTestDesk(t, quotes)
	ctx := context.Background()

	other, err := store.CreateUser(ctx, "other", "hash", decimal.NewFromInt(10000))
	require.NoError(t, err)

	_, err = desk.Buy(ctx, u.ID, "AAPL", 10)
	require.NoError(t, err)

	// The other user holds nothing and keeps full cash.
	held, err := store.Holding(ctx, other.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(0), held)

	got, err := store.UserByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000", got.Cash.String())

	_, err = desk.Sell(ctx, other.ID, "AAPL", 1)
	assert.ErrorIs(t, err, ErrInsufficientShares)
}
