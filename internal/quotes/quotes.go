// Package quotes provides live stock prices to the ledger service.
package quotes

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/user/stockledger/internal/models"
)

// ErrSymbolNotFound is returned when a symbol cannot be priced. Provider
// failures of any kind (unknown symbol, network error, rate limit) surface
// as this error so callers see a single rejection.
var ErrSymbolNotFound = errors.New("symbol not found")

// Provider looks up the current price and display name for a symbol.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*models.Quote, error)
}

// PriceUpdate is a single price change broadcast to stream subscribers.
type PriceUpdate struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Ts     int64           `json:"ts"` // Unix timestamp milliseconds
}
