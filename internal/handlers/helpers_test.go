package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/middleware"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories/repotest"
	"github.com/example/salon/internal/services"
	"github.com/example/salon/internal/utils"
)

type testEnv struct {
	app       *fiber.App
	cfg       *config.Config
	users     *repotest.Users
	otps      *repotest.OTPs
	addresses *repotest.Addresses
	tokens    *services.ResetTokenGenerator
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		OTPTTL:           15 * time.Minute,
		PasswordResetTTL: 72 * time.Hour,
		SiteDomain:       "https://salon.example",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	log := zap.NewNop()
	env := &testEnv{
		cfg:       cfg,
		users:     repotest.NewUsers(),
		otps:      repotest.NewOTPs(time.Now),
		addresses: repotest.NewAddresses(),
		tokens:    services.NewResetTokenGenerator(cfg.JWTSecret, cfg.PasswordResetTTL),
	}

	notifier := services.NewLogNotifier(log)
	auth := services.NewAuthService(env.users, cfg, log)
	otp := services.NewOTPService(env.users, env.otps, auth, notifier, cfg, log)
	reset := services.NewPasswordResetService(env.users, env.tokens, notifier, notifier, cfg, log)

	authHandler := NewAuthHandler(auth, otp)
	accountHandler := NewAccountHandler(auth)
	resetHandler := NewPasswordResetHandler(reset)
	profileHandler := NewProfileHandler(env.users.Profiles(), env.addresses)
	catalogHandler := &CatalogHandler{}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)

	app.Get("/", Health)
	app.Post("/auth/registration", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/token/refresh", authHandler.RefreshToken)
	app.Post("/auth/token/verify", authHandler.VerifyToken)
	app.Post("/auth/send-otp", authHandler.SendOTP)
	app.Post("/auth/verify-otp", authHandler.VerifyOTP)
	app.Post("/auth/password/reset", resetHandler.RequestReset)
	app.Post("/auth/password-reset/confirm/:uid/:token", resetHandler.ConfirmReset)
	app.Post("/auth/change-password", requireAuth, accountHandler.ChangePassword)
	app.Post("/auth/update-email", requireAuth, accountHandler.UpdateEmail)
	app.Get("/auth/profile", requireAuth, profileHandler.GetProfile)
	app.Put("/auth/profile", requireAuth, profileHandler.UpdateProfile)
	app.Get("/auth/addresses", requireAuth, profileHandler.ListAddresses)
	app.Post("/auth/addresses", requireAuth, profileHandler.CreateAddress)
	app.Get("/auth/addresses/:uid", requireAuth, profileHandler.GetAddress)
	app.Patch("/auth/addresses/:uid", requireAuth, profileHandler.UpdateAddress)
	app.Delete("/auth/addresses/:uid", requireAuth, profileHandler.DeleteAddress)
	app.Post("/service/coupons/validate", catalogHandler.ValidateCoupon)
	app.Post("/service/staff-only", requireAuth, middleware.RequireStaff(env.users), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	env.app = app
	return env
}

// createUser stores an active user with the given identifiers and password.
func (e *testEnv) createUser(t *testing.T, email, phone, password string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{PasswordHash: hash, IsActive: true}
	if email != "" {
		user.Email = &email
	}
	if phone != "" {
		user.PhoneNumber = &phone
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	pair, err := utils.GenerateTokenPair(e.cfg.JWTSecret, user.ID, e.cfg.AccessTokenTTL, e.cfg.RefreshTokenTTL)
	require.NoError(t, err)
	return pair.AccessToken
}

type response struct {
	status int
	body   map[string]interface{}
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}, token string) response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func fieldErrors(t *testing.T, r response) map[string]interface{} {
	t.Helper()
	fields, ok := r.body["fields"].(map[string]interface{})
	require.True(t, ok, "response has no field errors: %v", r.body)
	return fields
}
