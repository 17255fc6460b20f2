package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmoura/finsim/ledger"
	"github.com/rmoura/finsim/market"
)

// Position is one priced holding in a snapshot.
type Position struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Snapshot is a user's portfolio at current prices: open positions plus
// cash, with Total = cash + the sum of position values.
type Snapshot struct {
	Positions []Position
	Cash      decimal.Decimal
	Total     decimal.Decimal
}

// Projector derives portfolio snapshots from the transaction ledger. It
// never writes; each call rescans the user's ledger and fetches one quote
// per distinct held symbol.
type Projector struct {
	store  ledger.Store
	quotes market.QuoteSource
}

func NewProjector(store ledger.Store, quotes market.QuoteSource) *Projector {
	return &Projector{store: store, quotes: quotes}
}

// Snapshot computes the current portfolio for a user. Symbols whose net
// shares are zero or negative are dropped. If the quote for a still-held
// symbol cannot be fetched the whole snapshot fails with an error naming
// that symbol: a total that silently skipped a position would be a lie.
func (p *Projector) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	u, err := p.store.UserByID(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	holdings, err := p.store.Holdings(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Cash:  u.Cash,
		Total: u.Cash,
	}

	for _, h := range holdings {
		if h.Shares <= 0 {
			continue
		}

		q, err := p.quotes.GetQuote(ctx, h.Symbol)
		if err != nil {
			return Snapshot{}, fmt.Errorf("quote %s: %w", h.Symbol, err)
		}

		value := q.Price.Mul(decimal.NewFromInt(h.Shares))
		snap.Positions = append(snap.Positions, Position{
			Symbol: h.Symbol,
			Name:   q.Name,
			Shares: h.Shares,
			Price:  q.Price,
			Value:  value,
		})
		snap.Total = snap.Total.Add(value)
	}

	return snap, nil
}
