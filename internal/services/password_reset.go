package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/utils"
)

const resetMailSubject = "Password Reset Request"

// PasswordResetService runs the two-step reset: request a token, then confirm it with a
// new password.
type PasswordResetService struct {
	users      repositories.UserRepository
	tokens     *ResetTokenGenerator
	mailer     Mailer
	sms        SMSSender
	siteDomain string
	log        *zap.Logger
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(
	users repositories.UserRepository,
	tokens *ResetTokenGenerator,
	mailer Mailer,
	sms SMSSender,
	cfg *config.Config,
	log *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		sms:        sms,
		siteDomain: cfg.SiteDomain,
		log:        log,
	}
}

// Request mints a token for the user behind identifier. Email identifiers receive a
// confirmation link, phone identifiers receive the token as a code. An unknown
// identifier returns ErrUserNotFound.
func (s *PasswordResetService) Request(ctx context.Context, id models.Identifier) error {
	user, err := s.users.FindByIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token := s.tokens.Make(user)
	uid := EncodeUID(user.ID)

	if id.IsEmail() {
		link := fmt.Sprintf("%s/auth/password/reset/confirm/%s/%s/", s.siteDomain, uid, token)
		body := fmt.Sprintf("Use the link below to choose a new password.\n\n%s\n", link)
		err = s.mailer.SendMail(ctx, user.EmailValue(), resetMailSubject, body)
	} else {
		message := fmt.Sprintf("Your password reset code is %s. Use this code to reset your password.", token)
		err = s.sms.SendSMS(ctx, user.PhoneValue(), message)
	}
	if err != nil {
		s.log.Error("password reset delivery failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

// Confirm checks the uid/token pair and stores newPassword.
func (s *PasswordResetService) Confirm(ctx context.Context, uidb64, token, newPassword string) error {
	userID, err := DecodeUID(uidb64)
	if err != nil {
		return ErrInvalidResetLink
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetLink
		}
		return err
	}

	if !s.tokens.Check(user, token) {
		return ErrInvalidResetToken
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if err := policyError("new_password", newPassword, user); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.log.Info("password reset", zap.String("user_id", user.ID.String()))
	return nil
}
