package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/services"
)

// ErrorHandler renders every error returned by a handler as JSON.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			verr     *models.ValidationError
			upstream *services.UpstreamError
			ferr     *fiber.Error
		)

		switch {
		case errors.As(err, &verr):
			status := fiber.StatusBadRequest
			if verr.Conflict {
				status = fiber.StatusConflict
			}
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"error":   "Validation failed.",
				"fields":  verr.Fields,
			})
		case errors.As(err, &upstream):
			log.Error("distance matrix failure", zap.String("status", upstream.Status))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   upstream.Error(),
			})
		case errors.As(err, &ferr):
			return c.Status(ferr.Code).JSON(fiber.Map{
				"success": false,
				"error":   ferr.Message,
			})
		}

		if mapped := mapServiceError(err); mapped != nil {
			return c.Status(mapped.Code).JSON(fiber.Map{
				"success": false,
				"error":   mapped.Message,
			})
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}
}

// mapServiceError translates service and repository sentinels. It returns nil for
// unknown errors.
func mapServiceError(err error) *fiber.Error {
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		return fiber.NewError(fiber.StatusBadRequest, "Username and password are required.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrInvalidOTP):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, services.ErrInvalidToken):
		return fiber.NewError(fiber.StatusUnauthorized, "Token is invalid or expired")
	case errors.Is(err, services.ErrInvalidResetLink):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid token or user.")
	case errors.Is(err, services.ErrInvalidResetToken):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired token.")
	case errors.Is(err, services.ErrPasswordRequired):
		return fiber.NewError(fiber.StatusBadRequest, "New password is required.")
	case errors.Is(err, services.ErrIncorrectPassword):
		return fiber.NewError(fiber.StatusBadRequest, "Old password is incorrect.")
	case errors.Is(err, services.ErrPasswordMismatch):
		return fiber.NewError(fiber.StatusBadRequest, "New password and confirm password do not match.")
	case errors.Is(err, services.ErrPasswordFieldsNeeded):
		return fiber.NewError(fiber.StatusBadRequest, "All fields (old_password, new_password, confirm_password) are required.")
	case errors.Is(err, services.ErrProviderRejected):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid social access token.")
	case errors.Is(err, services.ErrUnknownProvider):
		return fiber.NewError(fiber.StatusNotFound, "Unknown provider.")
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	case errors.Is(err, repositories.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, "A record with this slug already exists.")
	}
	return nil
}
