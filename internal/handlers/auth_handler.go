package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockledger/internal/models"
)

// RegisterRequest defines the expected JSON body for registration.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"password_confirmation"`
}

// LoginRequest defines the expected JSON body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest defines the expected JSON body for a password change.
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password"`
	NewPassword  string `json:"new_password"`
	Confirmation string `json:"new_password_confirmation"`
}

// AuthResponse defines the JSON response for successful auth.
type AuthResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	IssuedAt time.Time    `json:"issued_at"`
}

// Register handles user registration and logs the new user straight in.
func (h *Handler) Register(c *fiber.Ctx) error {
	req := new(RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	user, err := h.Ledger.Register(c.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.Tokens.Generate(user.ID, user.Username)
	if err != nil {
		log.Printf("Error generating token for new user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "User created, but failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Token:    token,
		User:     user,
		IssuedAt: time.Now(),
	})
}

// Login handles user authentication.
func (h *Handler) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	user, err := h.Ledger.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.Tokens.Generate(user.ID, user.Username)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusOK).JSON(AuthResponse{
		Token:    token,
		User:     user,
		IssuedAt: time.Now(),
	})
}

// ChangePassword replaces the authenticated user's password.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	req := new(ChangePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.Ledger.ChangePassword(c.Context(), userID, req.OldPassword, req.NewPassword, req.Confirmation); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password changed successfully"})
}

// Me returns the identity carried by the token.
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	username, ok2 := c.Locals("username").(string)
	if !ok || !ok2 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get user info from context"})
	}

	return c.JSON(fiber.Map{
		"user_id":  userID,
		"username": username,
	})
}
