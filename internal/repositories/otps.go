package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/salon/internal/models"
)

// OTPRepository stores one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, otp *models.OTP) error
	FindActive(ctx context.Context, userID uuid.UUID, code string, since time.Time) (*models.OTP, error)
	Consume(ctx context.Context, id uint) (bool, error)
}

type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository returns a gorm-backed OTPRepository.
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *models.OTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// FindActive returns the newest active code for the user matching code and created at
// or after since.
func (r *otpRepository) FindActive(ctx context.Context, userID uuid.UUID, code string, since time.Time) (*models.OTP, error) {
	var otp models.OTP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND is_active = ? AND created_at >= ?", userID, code, true, since).
		Order("created_at desc").
		First(&otp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &otp, nil
}

// Consume deactivates the code only if it is still active. It reports false when another
// request consumed it first.
func (r *otpRepository) Consume(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.OTP{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
