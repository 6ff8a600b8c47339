package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/utils"
)

const otpDigits = 6

// OTPService issues and verifies phone one-time codes.
type OTPService struct {
	users  repositories.UserRepository
	otps   repositories.OTPRepository
	auth   *AuthService
	sms    SMSSender
	window time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// NewOTPService constructs an OTPService.
func NewOTPService(
	users repositories.UserRepository,
	otps repositories.OTPRepository,
	auth *AuthService,
	sms SMSSender,
	cfg *config.Config,
	log *zap.Logger,
) *OTPService {
	return &OTPService{
		users:  users,
		otps:   otps,
		auth:   auth,
		sms:    sms,
		window: cfg.OTPTTL,
		now:    time.Now,
		log:    log,
	}
}

// Issue creates a fresh code for the user owning phone and hands it to the SMS sender.
// Earlier codes stay valid until they expire or are used.
func (s *OTPService) Issue(ctx context.Context, phone string) error {
	user, err := s.userByPhone(ctx, phone)
	if err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	otp := &models.OTP{UserID: user.ID, Code: code, IsActive: true}
	if err := s.otps.Create(ctx, otp); err != nil {
		return err
	}
	otpIssued.Inc()

	message := fmt.Sprintf("Your verification code is %s.", code)
	if err := s.sms.SendSMS(ctx, user.PhoneValue(), message); err != nil {
		s.log.Warn("sms delivery failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return nil
}

// Verify consumes a matching active code issued within the window and returns a token
// pair. Every failure reports ErrInvalidOTP.
func (s *OTPService) Verify(ctx context.Context, phone, code string) (*models.User, utils.TokenPair, error) {
	user, err := s.userByPhone(ctx, phone)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		otpVerifications.WithLabelValues("rejected").Inc()
		return nil, utils.TokenPair{}, ErrInvalidOTP
	}

	otp, err := s.otps.FindActive(ctx, user.ID, code, s.now().Add(-s.window))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			otpVerifications.WithLabelValues("rejected").Inc()
			return nil, utils.TokenPair{}, ErrInvalidOTP
		}
		return nil, utils.TokenPair{}, err
	}

	consumed, err := s.otps.Consume(ctx, otp.ID)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	if !consumed {
		otpVerifications.WithLabelValues("rejected").Inc()
		return nil, utils.TokenPair{}, ErrInvalidOTP
	}
	otpVerifications.WithLabelValues("accepted").Inc()

	pair, err := s.auth.IssueTokens(user)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	return user, pair, nil
}

func (s *OTPService) userByPhone(ctx context.Context, phone string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
