package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories/repotest"
	"github.com/example/salon/internal/utils"
)

func newAuth(t *testing.T) (*AuthService, *repotest.Users) {
	t.Helper()
	users := repotest.NewUsers()
	return NewAuthService(users, testConfig(), zap.NewNop()), users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		seed     *RegisterInput
		input    RegisterInput
		field    string
		conflict bool
	}{
		{
			name:  "neither identifier",
			input: RegisterInput{Password1: "s3cret-pass", Password2: "s3cret-pass"},
			field: models.NonFieldErrors,
		},
		{
			name:  "confirmation mismatch",
			input: RegisterInput{Email: "a@example.com", Password1: "s3cret-pass", Password2: "other-pass"},
			field: models.NonFieldErrors,
		},
		{
			name:  "malformed phone",
			input: RegisterInput{Phone: "12345", Password1: "x", Password2: "x"},
			field: "phone_number",
		},
		{
			name:  "malformed email",
			input: RegisterInput{Email: "not-an-email@", Password1: "x", Password2: "x"},
			field: "email",
		},
		{
			name:     "duplicate email",
			seed:     &RegisterInput{Email: "a@example.com", Password1: "x", Password2: "x"},
			input:    RegisterInput{Email: "a@example.com", Phone: "5555555555", Password1: "x", Password2: "x"},
			field:    "email",
			conflict: true,
		},
		{
			name:     "duplicate phone",
			seed:     &RegisterInput{Phone: "1234567890", Password1: "x", Password2: "x"},
			input:    RegisterInput{Email: "b@example.com", Phone: "1234567890", Password1: "x", Password2: "x"},
			field:    "phone_number",
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuth(t)
			if tt.seed != nil {
				_, err := svc.Register(ctx, *tt.seed)
				require.NoError(t, err)
			}

			_, err := svc.Register(ctx, tt.input)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Equal(t, tt.conflict, verr.Conflict)
		})
	}
}

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	svc, users := newAuth(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "New@Example.COM",
		Phone:     "1234567890",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	})
	require.NoError(t, err)

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New@example.com", stored.EmailValue())
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "s3cret-pass"))
	require.NotNil(t, stored.Profile)
	assert.Equal(t, user.ID, stored.Profile.UserID)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Register(ctx, RegisterInput{
		Email: "a@example.com", Phone: "1234567890", Password1: "s3cret-pass", Password2: "s3cret-pass",
	})
	require.NoError(t, err)

	t.Run("email", func(t *testing.T) {
		user, pair, err := svc.Authenticate(ctx, "a@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", user.EmailValue())

		id, err := utils.ParseToken("test-secret", pair.AccessToken, utils.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("phone", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "1234567890", "s3cret-pass")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown user fail alike", func(t *testing.T) {
		_, _, wrongPassword := svc.Authenticate(ctx, "a@example.com", "nope")
		_, _, unknown := svc.Authenticate(ctx, "ghost@example.com", "s3cret-pass")
		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword, unknown)
	})

	t.Run("missing input is a client error", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "", "s3cret-pass")
		assert.ErrorIs(t, err, ErrMissingCredentials)
		_, _, err = svc.Authenticate(ctx, "a@example.com", "")
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})
}

func TestRefreshAndVerify(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	user, err := svc.Register(ctx, RegisterInput{Phone: "1234567890", Password1: "x", Password2: "x"})
	require.NoError(t, err)
	pair, err := svc.IssueTokens(user)
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	id, err := utils.ParseToken("test-secret", access, utils.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot be refreshed")

	assert.NoError(t, svc.VerifyToken(pair.AccessToken))
	assert.NoError(t, svc.VerifyToken(pair.RefreshToken))
	assert.ErrorIs(t, svc.VerifyToken("garbage"), ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	user, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password1: "old-pass-1", Password2: "old-pass-1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "", "x", "x"), ErrPasswordFieldsNeeded)
	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "Tr1cky-horse", "Tr1cky-horse"), ErrIncorrectPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "old-pass-1", "Tr1cky-horse", "Tr1cky-cow"), ErrPasswordMismatch)

	var verr *models.ValidationError
	require.ErrorAs(t, svc.ChangePassword(ctx, user.ID, "old-pass-1", "123", "123"), &verr)
	assert.Len(t, verr.Fields["new_password"], 2)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-pass-1", "Tr1cky-horse", "Tr1cky-horse"))
	_, _, err = svc.Authenticate(ctx, "a@example.com", "Tr1cky-horse")
	assert.NoError(t, err)
}

func TestUpdateEmailAndPhone(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuth(t)
	first, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Phone: "1111111111", Password1: "x", Password2: "x"})
	require.NoError(t, err)
	second, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password1: "x", Password2: "x"})
	require.NoError(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, svc.UpdateEmail(ctx, second.ID, "a@example.com"), &verr)
	assert.True(t, verr.Conflict)
	require.ErrorAs(t, svc.UpdatePhone(ctx, second.ID, "1111111111"), &verr)
	assert.True(t, verr.Conflict)
	require.ErrorAs(t, svc.UpdatePhone(ctx, second.ID, "12ab"), &verr)
	assert.False(t, verr.Conflict)

	require.NoError(t, svc.UpdateEmail(ctx, first.ID, "c@example.com"))
	require.NoError(t, svc.UpdatePhone(ctx, second.ID, "2222222222"))

	got, err := users.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "2222222222", got.PhoneValue())
}
