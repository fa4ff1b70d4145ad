package activity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies a log entry.
type ActivityType string

const (
	ServiceCreated      ActivityType = "SERVICE_CREATED"
	ServiceUpdated      ActivityType = "SERVICE_UPDATED"
	ServiceDeleted      ActivityType = "SERVICE_DELETED"
	ProfileUpdated      ActivityType = "PROFILE_UPDATED"
	AccountVerified     ActivityType = "ACCOUNT_VERIFIED"
	GeneralNotification ActivityType = "GENERAL_NOTIFICATION"
)

// Activity is an append-only record of something a user did. Rows are never
// updated after creation apart from the is_read flag.
type Activity struct {
	ID                uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID    `gorm:"type:uuid;not null;index:idx_activity_user_created" json:"user_id"`
	Type              ActivityType `gorm:"type:varchar(100);not null" json:"type"`
	Message           string       `gorm:"type:text;not null" json:"message"`
	RelatedEntityID   *uuid.UUID   `gorm:"type:uuid" json:"related_entity_id,omitempty"`
	RelatedEntityType *string      `gorm:"type:varchar(50)" json:"related_entity_type,omitempty"`
	IsRead            bool         `gorm:"not null;default:false" json:"is_read"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_activity_user_created" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Activity) TableName() string {
	return "activities"
}
