package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/services"
)

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	reset *services.PasswordResetService
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(reset *services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{reset: reset}
}

type resetRequest struct {
	Identifier string `json:"identifier"`
}

// RequestReset sends a reset link by email or a reset code by SMS, depending on the
// shape of the identifier.
func (h *PasswordResetHandler) RequestReset(c *fiber.Ctx) error {
	var req resetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	id, err := models.ParseIdentifier(req.Identifier)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Email or phone number is required.")
	}

	if err := h.reset.Request(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "User with this email or phone number does not exist.")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "detail": "Password reset link/code sent."})
}

type confirmResetRequest struct {
	NewPassword string `json:"new_password"`
}

// ConfirmReset sets a new password when the uid/token pair from the link is valid.
func (h *PasswordResetHandler) ConfirmReset(c *fiber.Ctx) error {
	var req confirmResetRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	if err := h.reset.Confirm(c.UserContext(), c.Params("uid"), c.Params("token"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "detail": "Password has been reset successfully."})
}
