// File: internal/customer/model.go
package customer

import (
	"time"

	"localpro_backend/internal/common"
	"localpro_backend/internal/provider"

	"github.com/google/uuid"
)

// CustomerProfile is the lightweight profile a customer keeps. Exactly one
// row per user, enforced by the unique index on user_id.
type CustomerProfile struct {
	common.BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FullName string    `gorm:"type:varchar(255);not null"`
	Phone    string    `gorm:"type:varchar(50);not null"`
	City     string    `gorm:"type:varchar(100)"`
	Region   string    `gorm:"type:varchar(100)"`
	Town     string    `gorm:"type:varchar(100)"`
}

// TableName specifies the table name for the CustomerProfile model.
func (CustomerProfile) TableName() string {
	return "customer_profiles"
}

// ProfileWithEmail carries a profile row joined with the owner's email.
type ProfileWithEmail struct {
	CustomerProfile
	Email string
}

// --- DTOs ---

// SaveProfileRequest is the JSON body for a customer profile upsert. The
// location field may also arrive as a JSON-encoded string, matching the
// provider form encoding.
type SaveProfileRequest struct {
	FullName string            `json:"fullName"`
	Phone    string            `json:"phone"`
	Location provider.Location `json:"-"`

	// RawLocation captures either encoding of the location field.
	RawLocation interface{} `json:"location"`
}

// ProfileResponse defines the structure for customer profile data in API
// responses.
type ProfileResponse struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	FullName  string            `json:"full_name"`
	Phone     string            `json:"phone"`
	Location  provider.Location `json:"location"`
	Email     string            `json:"email,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToProfileResponse converts a CustomerProfile model to a ProfileResponse DTO.
func ToProfileResponse(p *CustomerProfile) ProfileResponse {
	return ProfileResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		FullName: p.FullName,
		Phone:    p.Phone,
		Location: provider.Location{
			City:   p.City,
			Region: p.Region,
			Town:   p.Town,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
