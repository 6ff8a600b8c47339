package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/salon/internal/middleware"
	"github.com/example/salon/internal/services"
)

// AccountHandler serves authenticated changes to credentials and identifiers.
type AccountHandler struct {
	auth *services.AuthService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(auth *services.AuthService) *AccountHandler {
	return &AccountHandler{auth: auth}
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.UserContext(), userID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "detail": "Password updated successfully."})
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

func (h *AccountHandler) UpdateEmail(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.UpdateEmail(c.UserContext(), userID, req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "detail": "Email updated successfully."})
}

type updatePhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (h *AccountHandler) UpdatePhone(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updatePhoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.UpdatePhone(c.UserContext(), userID, req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "detail": "Phone number updated successfully."})
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	return userID, nil
}
