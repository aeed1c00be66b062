package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action labels recorded on ledger entries.
const (
	ActionPurchase = "Purchase"
	ActionSell     = "Sell"
	ActionDeposit  = "Deposit"
)

// CashSymbol is the sentinel symbol used for deposit entries.
const CashSymbol = "Cash"

// User represents a user account. Cash is tracked directly on the row and
// mutated in the same transaction as every ledger insert.
type User struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Password  string          `json:"-"` // Store hash, exclude from JSON responses
	Cash      decimal.Decimal `json:"cash"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is one immutable ledger entry: a buy, sell, or deposit.
// Shares and Total are signed; negative values record sells.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Shares     int64           `json:"shares"`
	StockValue decimal.Decimal `json:"stock_value"` // price per share at time of action
	Total      decimal.Decimal `json:"total"`
	Action     string          `json:"action"`
	Since      time.Time       `json:"since"`
}

// Holding is one priced position in a portfolio view. Shares is the signed
// sum of ledger entries for the symbol; only positive positions are held.
type Holding struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

// Portfolio is the derived view over a user's ledger combined with live quotes.
type Portfolio struct {
	Holdings   []Holding       `json:"holdings"`
	Cash       decimal.Decimal `json:"cash"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Quote is a live price for a symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}
