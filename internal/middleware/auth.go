package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/utils"
)

const userContextKey = "currentUserID"

// AuthMiddleware validates the bearer access token and stores the user ID in context.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, err := utils.ParseToken(secret, strings.TrimSpace(parts[1]), utils.AccessToken)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Given token not valid for any token type")
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// RequireStaff lets through only active staff users. It must run after AuthMiddleware.
func RequireStaff(users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}
		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil || !user.IsActive || !user.IsStaff {
			return fiber.NewError(fiber.StatusForbidden, "You do not have permission to perform this action.")
		}
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
