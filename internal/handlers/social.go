package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/salon/internal/services"
)

// SocialHandler signs users in through Google or Facebook.
type SocialHandler struct {
	social *services.SocialService
}

// NewSocialHandler constructs a SocialHandler.
func NewSocialHandler(social *services.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

type socialLoginRequest struct {
	AccessToken string `json:"access_token"`
}

// Google exchanges a Google access token for a token pair.
func (h *SocialHandler) Google(c *fiber.Ctx) error {
	return h.login(c, services.ProviderGoogle)
}

// Facebook exchanges a Facebook access token for a token pair.
func (h *SocialHandler) Facebook(c *fiber.Ctx) error {
	return h.login(c, services.ProviderFacebook)
}

func (h *SocialHandler) login(c *fiber.Ctx, provider string) error {
	var req socialLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	_, pair, err := h.social.Login(c.UserContext(), provider, req.AccessToken)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(pair, nil))
}

// GoogleCallback relays the token response for an authorization code.
func (h *SocialHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "No code provided")
	}

	raw, err := h.social.ExchangeCode(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, services.ErrProviderRejected) {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to obtain token")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
