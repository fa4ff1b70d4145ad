// File: internal/provider/model.go
package provider

import (
	"time"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"github.com/lib/pq" // For pq.StringArray
)

// ProviderProfile is the profile a provider presents to customers. Exactly
// one row per user, enforced by the unique index on user_id.
type ProviderProfile struct {
	common.BaseModel
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	FullName    string         `gorm:"type:varchar(255);not null"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text;not null"`
	Phone       string         `gorm:"type:varchar(50);not null"`
	Services    pq.StringArray `gorm:"type:text[];not null"`
	City        string         `gorm:"type:varchar(100)"`
	Region      string         `gorm:"type:varchar(100)"`
	Town        string         `gorm:"type:varchar(100)"`
	Photo       string         `gorm:"type:text"` // relative path under the upload root, empty when unset
}

// TableName specifies the table name for the ProviderProfile model.
func (ProviderProfile) TableName() string {
	return "provider_profiles"
}

// ProfileWithEmail carries a profile row joined with the owner's email for
// public reads. The password hash never leaves the users table.
type ProfileWithEmail struct {
	ProviderProfile
	Email string
}

// --- DTOs ---

// Location groups the free-form location fields.
type Location struct {
	City   string `json:"city"`
	Region string `json:"region"`
	Town   string `json:"town"`
}

// SaveProfileInput is the parsed multipart form for a profile upsert. The
// photo file travels separately as a *multipart.FileHeader.
type SaveProfileInput struct {
	FullName    string
	Title       string
	Description string
	Phone       string
	Services    []string
	Location    Location
}

// SearchQuery holds the optional criteria for provider search. Absent
// fields are no constraint.
type SearchQuery struct {
	Services string `form:"services"`
	City     string `form:"city"`
	Region   string `form:"region"`
	Town     string `form:"town"`
}

// IsEmpty reports whether no criterion was supplied.
func (q SearchQuery) IsEmpty() bool {
	return q.Services == "" && q.City == "" && q.Region == "" && q.Town == ""
}

// StatsResponse mirrors the dashboard counters. Bookings and reviews have
// no backing subsystem yet and are always zero.
type StatsResponse struct {
	ServicesCount int64 `json:"servicesCount"`
	BookingsCount int64 `json:"bookingsCount"`
	ReviewsCount  int64 `json:"reviewsCount"`
}

// ProfileResponse defines the structure for provider profile data in API
// responses.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Services    []string  `json:"services"`
	Location    Location  `json:"location"`
	Photo       string    `json:"photo,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProfileResponse converts a ProviderProfile model to a ProfileResponse DTO.
// publicBaseURL turns the stored relative photo path into a servable URL.
func ToProfileResponse(p *ProviderProfile, publicBaseURL string) ProfileResponse {
	resp := ProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		FullName:    p.FullName,
		Title:       p.Title,
		Description: p.Description,
		Phone:       p.Phone,
		Services:    []string(p.Services),
		Location: Location{
			City:   p.City,
			Region: p.Region,
			Town:   p.Town,
		},
		Photo:     p.Photo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Photo != "" && publicBaseURL != "" {
		resp.PhotoURL = publicBaseURL + "/" + p.Photo
	}
	return resp
}
