package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UsageRecord is one billable AI operation charged to a profile owner.
type UsageRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	CostUSD   float64        `gorm:"column:cost_usd;not null" json:"cost_usd"`
	Model     string         `gorm:"column:model;not null" json:"model"`
	Operation string         `gorm:"column:operation;not null" json:"operation"`
	Kind      string         `gorm:"column:kind;not null" json:"kind"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (UsageRecord) TableName() string {
	return "usage_record"
}
