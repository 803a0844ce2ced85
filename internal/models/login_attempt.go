package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginAttempt is an append-only audit record of one credential verification.
// UserID is nil when the attempted email matched no account. Rows are never
// updated or deleted.
type LoginAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Email       string     `gorm:"type:citext;not null" json:"email"`
	Success     bool       `gorm:"not null" json:"success"`
	IPAddress   string     `gorm:"type:varchar(45)" json:"ip_address"`
	AttemptedAt time.Time  `gorm:"type:timestamptz;not null;default:now()" json:"attempted_at"`
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}

func (a *LoginAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
