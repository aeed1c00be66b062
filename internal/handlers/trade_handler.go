package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// TradeRequest defines the expected JSON body for buy and sell orders.
type TradeRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// DepositRequest defines the expected JSON body for a cash deposit. The
// amount arrives as a string and is validated by the ledger.
type DepositRequest struct {
	Amount string `json:"amount"`
}

// Buy purchases shares at the live price.
func (h *Handler) Buy(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	req := new(TradeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	entry, err := h.Ledger.Buy(c.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Sell sells shares the user currently holds.
func (h *Handler) Sell(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	req := new(TradeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	entry, err := h.Ledger.Sell(c.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Deposit adds cash to the user's account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	req := new(DepositRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	entry, err := h.Ledger.Deposit(c.Context(), userID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}
