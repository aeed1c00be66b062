package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetQuote returns the live quote for the symbol in the path.
func (h *Handler) GetQuote(c *fiber.Ctx) error {
	quote, err := h.Ledger.Quote(c.Context(), c.Params("symbol"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(quote)
}
