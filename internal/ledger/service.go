// Package ledger implements the trading ledger: buys, sells, and deposits
// recorded as signed immutable rows and aggregated into holdings and cash.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/user/stockledger/internal/auth"
	"github.com/user/stockledger/internal/models"
	"github.com/user/stockledger/internal/quotes"
)

// Service holds all state mutations and queries over user balances and
// trade history.
type Service struct {
	store  Store
	quotes quotes.Provider
}

// NewService creates a ledger service over the given store and quote provider.
func NewService(store Store, provider quotes.Provider) *Service {
	return &Service{store: store, quotes: provider}
}

// Quote returns the live quote for a symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	return s.quotes.Lookup(ctx, symbol)
}

// Portfolio returns the user's current holdings priced at live quotes,
// cash balance, and grand total. No side effects.
func (s *Service) Portfolio(ctx context.Context, userID uuid.UUID) (*models.Portfolio, error) {
	cash, err := s.store.Cash(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading cash for user %s: %w", userID, err)
	}

	positions, err := s.store.Positions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating positions for user %s: %w", userID, err)
	}

	grandTotal := cash
	holdings := make([]models.Holding, 0, len(positions))
	for _, p := range positions {
		q, err := s.quotes.Lookup(ctx, p.Symbol)
		if err != nil {
			return nil, err
		}
		p.Price = q.Price
		p.Value = q.Price.Mul(decimal.NewFromInt(p.Shares))
		grandTotal = grandTotal.Add(p.Value)
		holdings = append(holdings, p)
	}

	return &models.Portfolio{
		Holdings:   holdings,
		Cash:       cash,
		GrandTotal: grandTotal,
	}, nil
}

// Buy purchases shares of a stock at the live price, debiting cash and
// appending a Purchase entry in one transaction.
func (s *Service) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*models.Transaction, error) {
	if shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be a positive integer", ErrInvalidInput)
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))

	entry := &models.Transaction{
		UserID:     userID,
		Symbol:     q.Symbol,
		Name:       q.Name,
		Shares:     shares,
		StockValue: q.Price,
		Total:      cost,
		Action:     models.ActionPurchase,
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		cash, err := tx.CashForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if cost.GreaterThan(cash) {
			return ErrInsufficientFunds
		}
		if err := tx.AdjustCash(ctx, userID, cost.Neg()); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Sell sells shares the user currently holds at the live price, crediting
// cash and appending a Sell entry with negative shares in one transaction.
func (s *Service) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*models.Transaction, error) {
	if shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be a positive integer", ErrInvalidInput)
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	entry := &models.Transaction{
		UserID:     userID,
		Symbol:     q.Symbol,
		Name:       q.Name,
		Shares:     -shares,
		StockValue: q.Price,
		Total:      proceeds.Neg(),
		Action:     models.ActionSell,
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		// Lock the user row first so concurrent sells serialize.
		if _, err := tx.CashForUpdate(ctx, userID); err != nil {
			return err
		}
		held, err := tx.SharesHeld(ctx, userID, q.Symbol)
		if err != nil {
			return err
		}
		if held <= 0 || held < shares {
			return ErrInsufficientShares
		}
		if err := tx.AdjustCash(ctx, userID, proceeds); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Deposit adds cash to the user's account and records it as a ledger entry
// under the "Cash" sentinel symbol.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount string) (*models.Transaction, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !value.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}

	entry := &models.Transaction{
		UserID:     userID,
		Symbol:     models.CashSymbol,
		Name:       "Deposit",
		Shares:     1,
		StockValue: value,
		Total:      value,
		Action:     models.ActionDeposit,
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.CashForUpdate(ctx, userID); err != nil {
			return err
		}
		if err := tx.AdjustCash(ctx, userID, value); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// History returns all of the user's ledger entries in order of occurrence,
// with share counts normalized to their absolute value for display. A user
// with no entries gets ErrEmptyHistory.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	entries, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading history for user %s: %w", userID, err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyHistory
	}

	for i := range entries {
		if entries[i].Shares < 0 {
			entries[i].Shares = -entries[i].Shares
		}
	}
	return entries, nil
}

// Register creates a new user with the default starting cash. The caller
// is expected to establish the session (issue a token) on success.
func (s *Service) Register(ctx context.Context, username, password, confirmation string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirmation == "" {
		return nil, ErrMissingField
	}
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	return s.store.CreateUser(ctx, username, hash)
}

// Login checks credentials and returns the matched user. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingField
	}

	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("finding user %s: %w", username, err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the user's stored hash after verifying the old
// password and the confirmation.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmation string) error {
	if oldPassword == "" || newPassword == "" || confirmation == "" {
		return ErrMissingField
	}
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("finding user %s: %w", userID, err)
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(oldPassword, user.Password) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.store.UpdatePassword(ctx, userID, hash)
}
