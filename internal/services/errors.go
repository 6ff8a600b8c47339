package services

import "errors"

var (
	ErrMissingCredentials   = errors.New("identifier and password are required")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidOTP           = errors.New("invalid otp")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrInvalidResetLink     = errors.New("invalid reset link")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrPasswordRequired     = errors.New("new password is required")
	ErrIncorrectPassword    = errors.New("old password is incorrect")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrPasswordFieldsNeeded = errors.New("old, new and confirm password are required")
	ErrProviderRejected     = errors.New("social provider rejected the token")
)
