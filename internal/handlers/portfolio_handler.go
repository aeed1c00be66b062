package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockledger/internal/ledger"
	"github.com/user/stockledger/internal/models"
)

// GetPortfolio returns the user's holdings priced at live quotes, cash,
// and grand total.
func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	portfolio, err := h.Ledger.Portfolio(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(portfolio)
}

// GetHistory returns the user's full transaction history. An empty history
// is a message, not a hard failure.
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	entries, err := h.Ledger.History(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyHistory) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message":      "Nothing to display",
				"transactions": []models.Transaction{},
			})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"transactions": entries})
}
