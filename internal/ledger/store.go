package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/user/stockledger/internal/models"
)

// Store is the persistence surface the ledger service runs against.
// The pgx implementation lives in internal/database.
type Store interface {
	// CreateUser inserts a new user with the default starting cash.
	// Inserting a duplicate username fails with ErrUsernameTaken.
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	// UserByUsername returns nil, nil when no such user exists.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID returns nil, nil when no such user exists.
	UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// Positions aggregates ledger entries by symbol and returns the
	// symbols with a positive net share count. Price and Value are left
	// for the caller to fill from live quotes.
	Positions(ctx context.Context, userID uuid.UUID) ([]models.Holding, error)
	// Transactions returns all of a user's ledger entries ordered by
	// occurrence.
	Transactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	Cash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// InTx runs fn inside a single database transaction. A non-nil error
	// from fn rolls everything back.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write surface available inside a ledger transaction. Every
// multi-write operation (buy, sell, deposit) goes through it so the cash
// mutation and the ledger insert commit or fail together.
type Tx interface {
	// CashForUpdate reads the user's cash with a row lock, serializing
	// concurrent operations against the same balance.
	CashForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	// AdjustCash applies a signed delta to the user's cash. It fails with
	// ErrInsufficientFunds if the result would go negative.
	AdjustCash(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error
	// SharesHeld returns the signed share sum for (user, symbol).
	SharesHeld(ctx context.Context, userID uuid.UUID, symbol string) (int64, error)
	// InsertTransaction appends an immutable ledger entry, filling in the
	// generated ID and timestamp.
	InsertTransaction(ctx context.Context, t *models.Transaction) error
}
