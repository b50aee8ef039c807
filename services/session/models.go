package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KindBearer is the only session kind issued today. The column exists so
// future non-refresh session kinds do not need a migration.
const KindBearer = "bearer"

// Session is the single refresh session a user may hold. The refresh token
// value is stored hashed; a session is usable only while both flags are
// false and the presented value matches the stored hash.
type Session struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	RefreshToken string    `json:"-" gorm:"column:refresh_token_hash;size:255;index;not null"`
	Revoked      bool      `json:"revoked" gorm:"not null;default:false"`
	Expired      bool      `json:"expired" gorm:"not null;default:false"`
	Kind         string    `json:"kind" gorm:"size:20;not null;default:bearer"`
	DeviceInfo   string    `json:"device_info" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
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

func (s *Session) Usable() bool {
	return !s.Revoked && !s.Expired
}
