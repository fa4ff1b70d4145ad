// File: internal/customer/repository.go
package customer

import (
	"context"
	"errors"
	"fmt"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for customer profile data operations.
type Repository interface {
	Upsert(ctx context.Context, profile *CustomerProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*CustomerProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ProfileWithEmail, error)
	FindAll(ctx context.Context, page, pageSize int) ([]CustomerProfile, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM customer repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Upsert writes the profile keyed on user_id, fully overwriting any
// existing row.
func (r *gormRepository) Upsert(ctx context.Context, profile *CustomerProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "phone", "city", "region", "town", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("upserting customer profile for user %s failed: %w", profile.UserID, err)
	}

	return r.db.WithContext(ctx).
		Where("user_id = ?", profile.UserID).
		First(profile).Error
}

// FindByUserID retrieves a customer profile by the owning user's ID.
func (r *gormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*CustomerProfile, error) {
	var profile CustomerProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Customer profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

// FindByID retrieves a customer profile by its own ID, joined with the
// owner's email.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*ProfileWithEmail, error) {
	var row ProfileWithEmail
	err := r.db.WithContext(ctx).
		Table("customer_profiles").
		Select("customer_profiles.*, users.email AS email").
		Joins("JOIN users ON users.id = customer_profiles.user_id").
		Where("customer_profiles.id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Customer profile not found.")
		}
		return nil, err
	}
	return &row, nil
}

// FindAll returns a page of customer profiles, newest first.
func (r *gormRepository) FindAll(ctx context.Context, page, pageSize int) ([]CustomerProfile, *common.Pagination, error) {
	var profiles []CustomerProfile
	var total int64

	if err := r.db.WithContext(ctx).Model(&CustomerProfile{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting customer profiles failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching customer profiles failed: %w", err)
	}
	return profiles, pagination, nil
}
