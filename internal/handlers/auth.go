package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/salon/internal/services"
	"github.com/example/salon/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *services.AuthService
	otp  *services.OTPService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService, otp *services.OTPService) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp}
}

// Register creates a new user account with an email, a phone number or both.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := h.auth.Register(c.UserContext(), req); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"detail":  "User created successfully.",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates with an email or phone number in the username field.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	_, pair, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(pair, nil))
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshToken mints a new access token from a refresh token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Refresh == "" {
		return fiber.NewError(fiber.StatusBadRequest, "refresh is required")
	}

	access, err := h.auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"access": access})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyToken answers 200 with an empty object for any valid token.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	var req verifyTokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.VerifyToken(req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{})
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// SendOTP issues a one-time code to the user owning the phone number.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.otp.Issue(c.UserContext(), req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"detail":  "OTP sent successfully",
	})
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

// VerifyOTP consumes a code and signs the user in.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	_, pair, err := h.otp.Verify(c.UserContext(), req.PhoneNumber, req.OTPCode)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(pair, fiber.Map{"detail": "OTP verification successful"}))
}

func tokenResponse(pair utils.TokenPair, extra fiber.Map) fiber.Map {
	resp := fiber.Map{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}
	for k, v := range extra {
		resp[k] = v
	}
	return resp
}
