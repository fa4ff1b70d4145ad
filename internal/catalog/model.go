// File: internal/catalog/model.go
package catalog

import (
	"time"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
)

// Service is a single offering in a provider's catalog.
type Service struct {
	common.BaseModel
	ProviderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Price       string    `gorm:"type:varchar(100);not null"`
	Category    string    `gorm:"type:varchar(100)"`
	IsActive    bool      `gorm:"not null;default:true"`
}

// TableName specifies the table name for the Service model.
func (Service) TableName() string {
	return "services"
}

// --- DTOs ---

// CreateServiceRequest defines the payload for creating a catalog entry.
type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Price       string `json:"price" binding:"required,min=1,max=100"`
	Category    string `json:"category" binding:"omitempty,max=100"`
}

// UpdateServiceRequest defines the payload for a partial update. Absent
// fields keep their current values.
type UpdateServiceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Price       *string `json:"price" binding:"omitempty,min=1,max=100"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

// ServiceResponse defines the structure for catalog data in API responses.
type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToServiceResponse converts a Service model to a ServiceResponse DTO.
func ToServiceResponse(s *Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		ProviderID:  s.ProviderID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Category:    s.Category,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
