package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/utils"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

var validate = validator.New()

// RegisterInput is the registration payload. Either Email or Phone may be blank, not both.
type RegisterInput struct {
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// AuthService handles registration, password login, token refresh and account updates.
type AuthService struct {
	users repositories.UserRepository
	cfg   *config.Config
	log   *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repositories.UserRepository, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{users: users, cfg: cfg, log: log}
}

// Register validates input, checks both identifiers for duplicates independently and
// creates the user together with its profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	verr := &models.ValidationError{}
	if email != "" {
		email = models.NormalizeEmail(email)
		if validate.Var(email, "email") != nil {
			verr.Add("email", "Enter a valid email address.")
		}
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		verr.Add("phone_number", "Phone number must be number and exactly 10 digits.")
	}
	if in.Password1 == "" {
		verr.Add("password1", "This field is required.")
	}
	if in.Password2 == "" {
		verr.Add("password2", "This field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if email == "" && phone == "" {
		return nil, models.NewNonFieldError("Either email or phone number is required.")
	}
	if in.Password1 != in.Password2 {
		return nil, models.NewNonFieldError("Passwords do not match.")
	}

	conflict := &models.ValidationError{Conflict: true}
	if email != "" {
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			conflict.Add("email", "A user with this email already exists.")
		}
	}
	if phone != "" {
		taken, err := s.users.PhoneExists(ctx, phone)
		if err != nil {
			return nil, err
		}
		if taken {
			conflict.Add("phone_number", "A user with this phone number already exists.")
		}
	}
	if err := conflict.OrNil(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password1)
	if err != nil {
		return nil, err
	}

	user := &models.User{PasswordHash: hash, IsActive: true}
	if email != "" {
		user.Email = &email
	}
	if phone != "" {
		user.PhoneNumber = &phone
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicateAsConflict(err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate resolves the identifier and checks the password. Unknown users, inactive
// users and wrong passwords all yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, utils.TokenPair, error) {
	id, err := models.ParseIdentifier(identifier)
	if err != nil || password == "" {
		return nil, utils.TokenPair{}, ErrMissingCredentials
	}

	user, err := s.users.FindByIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.TokenPair{}, ErrInvalidCredentials
		}
		return nil, utils.TokenPair{}, err
	}
	if !user.IsActive || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	return user, pair, nil
}

// IssueTokens mints an access and refresh token for user.
func (s *AuthService) IssueTokens(user *models.User) (utils.TokenPair, error) {
	return utils.GenerateTokenPair(s.cfg.JWTSecret, user.ID, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := utils.ParseToken(s.cfg.JWTSecret, refreshToken, utils.RefreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return "", ErrInvalidToken
	}
	return utils.GenerateToken(s.cfg.JWTSecret, user.ID, utils.AccessToken, s.cfg.AccessTokenTTL)
}

// VerifyToken accepts any valid token issued by this service, access or refresh.
func (s *AuthService) VerifyToken(token string) error {
	if _, err := utils.ParseToken(s.cfg.JWTSecret, token, utils.AccessToken); err == nil {
		return nil
	}
	if _, err := utils.ParseToken(s.cfg.JWTSecret, token, utils.RefreshToken); err == nil {
		return nil
	}
	return ErrInvalidToken
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirm string) error {
	if oldPassword == "" || newPassword == "" || confirm == "" {
		return ErrPasswordFieldsNeeded
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrIncorrectPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if err := policyError("new_password", newPassword, user); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// UpdateEmail replaces the user's email after format and uniqueness checks.
func (s *AuthService) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return models.NewFieldError("email", "This field is required.")
	}
	if validate.Var(email, "email") != nil {
		return models.NewFieldError("email", "Enter a valid email address.")
	}
	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return conflictField("email", "A user with this email already exists.")
	}
	return duplicateAsConflict(s.users.UpdateEmail(ctx, userID, email))
}

// UpdatePhone replaces the user's phone number after format and uniqueness checks.
func (s *AuthService) UpdatePhone(ctx context.Context, userID uuid.UUID, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.NewFieldError("phone_number", "This field is required.")
	}
	if !phonePattern.MatchString(phone) {
		return models.NewFieldError("phone_number", "Phone number must be exactly 10 digits.")
	}
	taken, err := s.users.PhoneExists(ctx, phone)
	if err != nil {
		return err
	}
	if taken {
		return conflictField("phone_number", "A user with this phone number already exists.")
	}
	return duplicateAsConflict(s.users.UpdatePhone(ctx, userID, phone))
}

func policyError(field, password string, user *models.User) error {
	problems := ValidatePassword(password, userAttributes(user.EmailValue(), user.PhoneValue())...)
	if len(problems) == 0 {
		return nil
	}
	verr := &models.ValidationError{}
	for _, p := range problems {
		verr.Add(field, p)
	}
	return verr
}

func conflictField(field, message string) error {
	verr := models.NewFieldError(field, message)
	verr.Conflict = true
	return verr
}

// duplicateAsConflict covers the window between the existence check and the insert.
func duplicateAsConflict(err error) error {
	switch {
	case errors.Is(err, repositories.ErrEmailTaken):
		return conflictField("email", "A user with this email already exists.")
	case errors.Is(err, repositories.ErrPhoneTaken):
		return conflictField("phone_number", "A user with this phone number already exists.")
	}
	return err
}
