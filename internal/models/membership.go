package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRole string

const (
	RoleAdmin  MembershipRole = "ADMIN"
	RoleMember MembershipRole = "MEMBER"
)

// Membership links a user to an organization with a role. Every user owns at
// least one membership at all times; the first one is created atomically with
// the user.
type Membership struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Role           MembershipRole `gorm:"type:membership_role;default:'MEMBER'" json:"role"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
