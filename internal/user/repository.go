// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetProfileUpdated(ctx context.Context, id uuid.UUID) error
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new user record into the database. Email uniqueness is
// enforced by the store, not a read-then-write check.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isDuplicateKey(err) {
			return common.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by their email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var userModel User
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).Where("email = ?", normalizedEmail).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByResetToken retrieves a user by an outstanding password reset token.
func (r *gormRepository) FindByResetToken(ctx context.Context, token string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("reset_token = ?", token).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No account matches this reset token.")
		}
		return nil, err
	}
	return &userModel, nil
}

// Update modifies an existing user record in the database.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		if isDuplicateKey(err) {
			return common.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// SetProfileUpdated flips the profile_updated flag after a profile save.
func (r *gormRepository) SetProfileUpdated(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("profile_updated", true).Error
}

// ClearExpiredTokens nulls out verification codes and reset tokens whose
// expiry has passed. Run from the cleanup job.
func (r *gormRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	verify := r.db.WithContext(ctx).Model(&User{}).
		Where("verify_token IS NOT NULL AND verify_token_expiry < ?", now).
		Updates(map[string]interface{}{"verify_token": nil, "verify_token_expiry": nil})
	if verify.Error != nil {
		return 0, verify.Error
	}

	reset := r.db.WithContext(ctx).Model(&User{}).
		Where("reset_token IS NOT NULL AND reset_token_expiry < ?", now).
		Updates(map[string]interface{}{"reset_token": nil, "reset_token_expiry": nil})
	if reset.Error != nil {
		return verify.RowsAffected, reset.Error
	}

	return verify.RowsAffected + reset.RowsAffected, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
