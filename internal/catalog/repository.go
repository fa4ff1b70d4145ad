// File: internal/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for catalog data operations.
type Repository interface {
	Create(ctx context.Context, service *Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)
	FindByProvider(ctx context.Context, providerID uuid.UUID) ([]Service, error)
	Update(ctx context.Context, service *Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByProvider(ctx context.Context, providerID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM catalog repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, service *Service) error {
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("creating service failed: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Service not found.")
		}
		return nil, err
	}
	return &service, nil
}

// FindByProvider returns all of a provider's services, newest first.
func (r *gormRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]Service, error) {
	var services []Service
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("fetching services for provider %s failed: %w", providerID, err)
	}
	return services, nil
}

func (r *gormRepository) Update(ctx context.Context, service *Service) error {
	result := r.db.WithContext(ctx).Save(service)
	if result.Error != nil {
		return fmt.Errorf("updating service %s failed: %w", service.ID, result.Error)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Service{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting service %s failed: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Service not found.")
	}
	return nil
}

func (r *gormRepository) CountByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Service{}).
		Where("provider_id = ?", providerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting services for provider %s failed: %w", providerID, err)
	}
	return count, nil
}
