// File: internal/user/model.go
package user

import (
	"time"

	"localpro_backend/internal/common" // For BaseModel

	"github.com/google/uuid"
)

// Roles accepted at registration. Admin accounts are provisioned out of band.
const (
	RoleProvider = "provider"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents the credential record in the database. Profile data lives
// in the provider and customer packages.
type User struct {
	common.BaseModel           // Embeds ID, CreatedAt, UpdatedAt
	Email             string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash      string   `gorm:"type:varchar(255);not null"`
	Role              string   `gorm:"type:varchar(50);not null"`
	IsVerified        bool     `gorm:"not null;default:false"`
	ProfileUpdated    bool     `gorm:"not null;default:false"`
	VerifyToken       *string  `gorm:"type:varchar(10)"`
	VerifyTokenExpiry *time.Time
	ResetToken        *string `gorm:"type:varchar(255);index"`
	ResetTokenExpiry  *time.Time
	TokenVersion      int `gorm:"not null;default:0"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// --- DTOs (Data Transfer Objects) for API responses ---

// UserResponse defines the structure for user data sent in API responses.
// The password hash and token columns never leave the server.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IsVerified     bool      `json:"is_verified"`
	ProfileUpdated bool      `json:"profile_updated"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Role:           user.Role,
		IsVerified:     user.IsVerified,
		ProfileUpdated: user.ProfileUpdated,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// shared.UserDataForToken implementation.

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetRole() string {
	return u.Role
}

func (u *User) GetTokenVersion() int {
	return u.TokenVersion
}
