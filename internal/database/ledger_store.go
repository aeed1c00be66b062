package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/user/stockledger/internal/ledger"
	"github.com/user/stockledger/internal/models"
)

// Cash reads the user's current cash balance.
func (s *Store) Cash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var cash decimal.Decimal
	query := `SELECT cash FROM users WHERE id = $1`

	if err := s.pool.QueryRow(ctx, query, userID).Scan(&cash); err != nil {
		return decimal.Zero, fmt.Errorf("reading cash for user %s: %w", userID, err)
	}
	return cash, nil
}

// Positions aggregates ledger entries by symbol and keeps symbols with a
// positive net share count. The Cash sentinel rows written by deposits are
// not positions and are excluded.
func (s *Store) Positions(ctx context.Context, userID uuid.UUID) ([]models.Holding, error) {
	positions := make([]models.Holding, 0)
	query := `SELECT symbol, MAX(name) AS name, SUM(shares)::bigint AS total_shares
			  FROM transactions
			  WHERE user_id = $1 AND symbol <> $2
			  GROUP BY symbol
			  HAVING SUM(shares) > 0
			  ORDER BY symbol`

	rows, err := s.pool.Query(ctx, query, userID, models.CashSymbol)
	if err != nil {
		return nil, fmt.Errorf("querying positions for user %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.Symbol, &h.Name, &h.Shares); err != nil {
			return nil, fmt.Errorf("scanning position row for user %s: %w", userID, err)
		}
		positions = append(positions, h)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating position rows for user %s: %w", userID, rows.Err())
	}

	return positions, nil
}

// Transactions returns all of a user's ledger entries ordered by occurrence.
func (s *Store) Transactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	entries := make([]models.Transaction, 0)
	query := `SELECT id, user_id, symbol, name, shares, stock_value, total, action, since
			  FROM transactions
			  WHERE user_id = $1
			  ORDER BY since, id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Name, &t.Shares,
			&t.StockValue, &t.Total, &t.Action, &t.Since)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row for user %s: %w", userID, err)
		}
		entries = append(entries, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating transaction rows for user %s: %w", userID, rows.Err())
	}

	return entries, nil
}

// InTx runs fn inside a single database transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&ledgerTx{tx: tx})
	})
}

// ledgerTx is the write surface inside a ledger transaction.
type ledgerTx struct {
	tx pgx.Tx
}

// CashForUpdate reads the user's cash with a row lock so concurrent
// operations against the same balance serialize.
func (t *ledgerTx) CashForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var cash decimal.Decimal
	query := `SELECT cash FROM users WHERE id = $1 FOR UPDATE`

	if err := t.tx.QueryRow(ctx, query, userID).Scan(&cash); err != nil {
		return decimal.Zero, fmt.Errorf("locking cash for user %s: %w", userID, err)
	}
	return cash, nil
}

// AdjustCash applies a signed delta to the user's cash. The guard keeps
// cash from going negative even if the caller's check raced.
func (t *ledgerTx) AdjustCash(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	query := `UPDATE users SET cash = cash + $1
			  WHERE id = $2 AND cash + $1 >= 0`

	cmdTag, err := t.tx.Exec(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("adjusting cash for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() != 1 {
		return ledger.ErrInsufficientFunds
	}
	return nil
}

// SharesHeld returns the signed share sum for (user, symbol).
func (t *ledgerTx) SharesHeld(ctx context.Context, userID uuid.UUID, symbol string) (int64, error) {
	var held int64
	query := `SELECT COALESCE(SUM(shares), 0)::bigint FROM transactions
			  WHERE user_id = $1 AND symbol = $2`

	if err := t.tx.QueryRow(ctx, query, userID, symbol).Scan(&held); err != nil {
		return 0, fmt.Errorf("summing shares for user %s symbol %s: %w", userID, symbol, err)
	}
	return held, nil
}

// InsertTransaction appends an immutable ledger entry.
func (t *ledgerTx) InsertTransaction(ctx context.Context, entry *models.Transaction) error {
	query := `INSERT INTO transactions (user_id, symbol, name, shares, stock_value, total, action)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, since`

	err := t.tx.QueryRow(ctx, query,
		entry.UserID, entry.Symbol, entry.Name, entry.Shares,
		entry.StockValue, entry.Total, entry.Action,
	).Scan(&entry.ID, &entry.Since)

	if err != nil {
		return fmt.Errorf("inserting ledger entry for user %s: %w", entry.UserID, err)
	}
	return nil
}
