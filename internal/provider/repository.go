// File: internal/provider/repository.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for provider profile data operations.
type Repository interface {
	Upsert(ctx context.Context, profile *ProviderProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*ProviderProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ProfileWithEmail, error)
	FindAll(ctx context.Context, page, pageSize int) ([]ProviderProfile, *common.Pagination, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (*ProviderProfile, error)
	Search(ctx context.Context, query SearchQuery) ([]ProviderProfile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProviderProfile, error)
	FindAllForSync(ctx context.Context, offset, limit int) ([]ProviderProfile, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM provider repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Upsert writes the profile keyed on user_id. An existing row is fully
// overwritten; there is no partial merge.
func (r *gormRepository) Upsert(ctx context.Context, profile *ProviderProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "title", "description", "phone", "services",
			"city", "region", "town", "photo", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("upserting provider profile for user %s failed: %w", profile.UserID, err)
	}

	// Create under OnConflict does not refresh the struct on the update
	// path, so read the row back for a stable ID and timestamps.
	return r.db.WithContext(ctx).
		Where("user_id = ?", profile.UserID).
		First(profile).Error
}

// FindByUserID retrieves a provider profile by the owning user's ID.
func (r *gormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*ProviderProfile, error) {
	var profile ProviderProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Provider profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

// FindByID retrieves a provider profile by its own ID, joined with the
// owner's email for the public detail view.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*ProfileWithEmail, error) {
	var row ProfileWithEmail
	err := r.db.WithContext(ctx).
		Table("provider_profiles").
		Select("provider_profiles.*, users.email AS email").
		Joins("JOIN users ON users.id = provider_profiles.user_id").
		Where("provider_profiles.id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Provider profile not found.")
		}
		return nil, err
	}
	return &row, nil
}

// FindAll returns a page of provider profiles, newest first.
func (r *gormRepository) FindAll(ctx context.Context, page, pageSize int) ([]ProviderProfile, *common.Pagination, error) {
	var profiles []ProviderProfile
	var total int64

	if err := r.db.WithContext(ctx).Model(&ProviderProfile{}).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting provider profiles failed: %w", err)
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
		return nil, nil, fmt.Errorf("fetching provider profiles failed: %w", err)
	}
	return profiles, pagination, nil
}

// DeleteByUserID removes the profile row and returns the deleted record so
// the caller can clean up the photo file. Credentials and services are
// untouched.
func (r *gormRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (*ProviderProfile, error) {
	profile, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&ProviderProfile{}, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("deleting provider profile for user %s failed: %w", userID, err)
	}
	return profile, nil
}

// Search filters profiles in SQL. The services criterion matches whole
// words case-insensitively against the joined services list, so "Plumber"
// matches ["Plumber"] but not ["PlumberAssistant"]. Location criteria are
// case-insensitive substring matches.
func (r *gormRepository) Search(ctx context.Context, query SearchQuery) ([]ProviderProfile, error) {
	tx := r.db.WithContext(ctx).Model(&ProviderProfile{})

	if query.Services != "" {
		tx = tx.Where("array_to_string(services, ' ') ~* ?", WordBoundaryPattern(query.Services))
	}
	if query.City != "" {
		tx = tx.Where("city ILIKE ?", "%"+query.City+"%")
	}
	if query.Region != "" {
		tx = tx.Where("region ILIKE ?", "%"+query.Region+"%")
	}
	if query.Town != "" {
		tx = tx.Where("town ILIKE ?", "%"+query.Town+"%")
	}

	var profiles []ProviderProfile
	if err := tx.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("searching provider profiles failed: %w", err)
	}
	return profiles, nil
}

// FindByIDs fetches profiles for a set of profile IDs, newest first. Used
// to hydrate Elasticsearch hits.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProviderProfile, error) {
	if len(ids) == 0 {
		return []ProviderProfile{}, nil
	}
	var profiles []ProviderProfile
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("fetching provider profiles by IDs failed: %w", err)
	}
	return profiles, nil
}

// FindAllForSync pages through all profiles in a stable order for bulk
// reindexing.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]ProviderProfile, error) {
	var profiles []ProviderProfile
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("fetching provider profiles for sync failed: %w", err)
	}
	return profiles, nil
}

// WordBoundaryPattern builds the Postgres regex used for the services
// criterion. \m and \M anchor to word boundaries.
func WordBoundaryPattern(term string) string {
	return `\m` + regexp.QuoteMeta(term) + `\M`
}
