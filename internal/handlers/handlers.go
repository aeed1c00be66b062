// Package handlers exposes the ledger service over Fiber.
package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/user/stockledger/internal/auth"
	"github.com/user/stockledger/internal/ledger"
	"github.com/user/stockledger/internal/websocket"
)

// Handler carries the service dependencies for all HTTP endpoints.
type Handler struct {
	Ledger *ledger.Service
	Tokens *auth.Tokens
	Hub    *websocket.Hub
}

// New creates the handler set.
func New(svc *ledger.Service, tokens *auth.Tokens, hub *websocket.Hub) *Handler {
	return &Handler{Ledger: svc, Tokens: tokens, Hub: hub}
}

// currentUserID pulls the authenticated user id set by the Protected middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	return userID, ok
}

// respondError maps ledger business errors to client statuses; anything
// unexpected becomes a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrSymbolNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidCredentials),
		errors.Is(err, ledger.ErrWrongPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrMissingField),
		errors.Is(err, ledger.ErrPasswordMismatch),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientShares):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
	}
}
