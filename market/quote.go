package market

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrSymbolNotFound is returned by a QuoteSource when the symbol does not
// resolve to a tradable instrument. Callers must treat it separately from
// transport failures: an unknown symbol is a user error, a failed lookup
// for a symbol we know is held is a collaborator fault.
var ErrSymbolNotFound = errors.New("symbol not found")

// Quote is a price/name snapshot for a symbol at a point in time.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// QuoteSource provides the current quote for a symbol.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}

// NormalizeSymbol upper-cases and trims a user-supplied ticker so that
// "aapl " and "AAPL" land on the same ledger rows.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
