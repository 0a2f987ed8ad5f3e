package types

import (
	"time"

	"github.com/google/uuid"
)

// ScanToken is one single-use scan authorization minted for a profile
// owner. Used flips true exactly once via a conditional update.
type ScanToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	OwnerName string     `gorm:"column:owner_name" json:"owner_name"`
	TokenHash string     `gorm:"uniqueIndex;not null;column:token_hash" json:"-"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	Used      bool       `gorm:"column:used;not null;default:false" json:"used"`
	UsedAt    *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (ScanToken) TableName() string {
	return "scan_token"
}
