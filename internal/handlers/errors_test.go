package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/services"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials."},
		{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{services.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
		{services.ErrInvalidResetToken, http.StatusBadRequest, "Invalid or expired token."},
		{fmt.Errorf("lookup: %w", repositories.ErrNotFound), http.StatusNotFound, "Not found."},
		{repositories.ErrDuplicate, http.StatusConflict, "A record with this slug already exists."},
	}

	for _, tt := range tests {
		mapped := mapServiceError(tt.err)
		require.NotNil(t, mapped, tt.err.Error())
		assert.Equal(t, tt.status, mapped.Code)
		assert.Equal(t, tt.msg, mapped.Message)
	}

	assert.Nil(t, mapServiceError(errors.New("boom")))
}

func TestErrorHandlerFallbacks(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db exploded") })
	app.Get("/upstream", func(c *fiber.Ctx) error { return &services.UpstreamError{Status: "OVER_QUERY_LIMIT"} })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/upstream", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "ok", resp.body["status"])
}

func TestRequireStaff(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "", "Sunny-Garden-42")
	token := env.accessToken(t, user)

	resp := env.do(t, http.MethodPost, "/service/staff-only", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodPost, "/service/staff-only", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodPost, "/service/staff-only", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "You do not have permission to perform this action.", resp.body["error"])

	require.NoError(t, env.users.Mutate(user.ID, func(u *models.User) { u.IsStaff = true }))
	resp = env.do(t, http.MethodPost, "/service/staff-only", nil, token)
	assert.Equal(t, http.StatusNoContent, resp.status)
}
