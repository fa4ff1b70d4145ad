package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, entry *Activity) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]Activity, error)
	MarkAsRead(ctx context.Context, entryID uuid.UUID, userID uuid.UUID) error
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM activity repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &GORMRepository{db: db}
}

// Create inserts a new activity entry into the database.
func (r *GORMRepository) Create(ctx context.Context, entry *Activity) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// GetByUserID retrieves the most recent activity entries for a user,
// newest first.
func (r *GORMRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]Activity, error) {
	var entries []Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("fetching activity for user %s failed: %w", userID, err)
	}
	return entries, nil
}

// MarkAsRead flags a single activity entry as read. The entry itself is
// otherwise immutable.
func (r *GORMRepository) MarkAsRead(ctx context.Context, entryID uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Activity{}).
		Where("id = ? AND user_id = ?", entryID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark activity %s as read for user %s: %w", entryID, userID, result.Error)
	}
	return nil
}
