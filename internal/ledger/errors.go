package ledger

import (
	"errors"

	"github.com/user/stockledger/internal/quotes"
)

// Business-rule rejections surfaced directly to the caller. These are
// expected outcomes, not defects; handlers map them to client statuses.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingField       = errors.New("missing field")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("wrong password")
	ErrEmptyHistory       = errors.New("no transactions to display")
)

// ErrSymbolNotFound is the quote provider's rejection, re-exported so
// callers can treat the taxonomy as one set.
var ErrSymbolNotFound = quotes.ErrSymbolNotFound
