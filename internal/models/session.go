package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceData is the fixed-schema device metadata captured at login. It is
// stored as a jsonb column; unknown keys are rejected at write time by virtue
// of the struct shape.
type DeviceData struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	Device         string `json:"device"`
	IPAddress      string `json:"ip_address"`
}

func (d DeviceData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DeviceData) Scan(value interface{}) error {
	if value == nil {
		*d = DeviceData{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported device data type %T", value)
	}
	return json.Unmarshal(raw, d)
}

// Session represents one authenticated browser/device context. It is bound to
// exactly one user and one active membership; the membership is reassigned on
// tenant switch. last_active is refreshed on every authenticated request.
type Session struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	MembershipID uuid.UUID  `gorm:"type:uuid;not null" json:"membership_id"`
	Device       DeviceData `gorm:"type:jsonb" json:"device"`
	LastActive   time.Time  `gorm:"type:timestamptz;not null;index" json:"last_active"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`

	User       *User       `gorm:"foreignKey:UserID" json:"-"`
	Membership *Membership `gorm:"foreignKey:MembershipID" json:"membership,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
