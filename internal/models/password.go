package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Password holds the salted hash for a user. One row per user; the plaintext
// is never stored and the hash is never serialized.
type Password struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"-"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Hash   string    `gorm:"type:varchar(255);not null" json:"-"`
}

func (Password) TableName() string {
	return "passwords"
}

func (p *Password) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
