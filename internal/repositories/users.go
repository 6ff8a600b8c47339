package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/salon/internal/database"
	"github.com/example/salon/internal/models"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrPhoneTaken = errors.New("phone number already registered")
)

// UserRepository is the identity store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByIdentifier(ctx context.Context, id models.Identifier) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
	GetOrCreateByEmail(ctx context.Context, email string) (*models.User, bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and its empty profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return uniqueUserError(err)
		}
		profile := &models.Profile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.first(ctx, "phone_number = ?", phone)
}

// FindByIdentifier looks the user up by the column matching the identifier kind.
func (r *userRepository) FindByIdentifier(ctx context.Context, id models.Identifier) (*models.User, error) {
	if id.IsEmail() {
		return r.FindByEmail(ctx, id.Value)
	}
	return r.FindByPhone(ctx, id.Value)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone_number = ?", phone)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.update(ctx, id, "password_hash", hash)
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.update(ctx, id, "email", email)
}

func (r *userRepository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	return r.update(ctx, id, "phone_number", phone)
}

// GetOrCreateByEmail returns the user owning email, creating a passwordless one when
// none exists. The boolean reports whether a user was created.
func (r *userRepository) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	user, err := r.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	user = &models.User{Email: &email, IsActive: true}
	if err := r.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// lost a race with a concurrent sign-in
			user, err = r.FindByEmail(ctx, email)
			return user, false, err
		}
		return nil, false, err
	}
	return user, true, nil
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) update(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return uniqueUserError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func uniqueUserError(err error) error {
	if !database.IsUniqueViolation(err) {
		return err
	}
	if strings.Contains(err.Error(), "phone") {
		return ErrPhoneTaken
	}
	return ErrEmailTaken
}
