package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/example/salon/internal/config"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendSMS(ctx context.Context, phone, message string) error {
	return m.Called(ctx, phone, message).Error(0)
}

func (m *mockNotifier) SendMail(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
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

func strPtr(s string) *string { return &s }
