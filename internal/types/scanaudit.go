package types

import (
	"time"

	"github.com/google/uuid"
)

// ScanAudit is one row per scan request, successful or not, for tracing
// and support lookups by request id.
type ScanAudit struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID          string    `gorm:"column:request_id;index;not null" json:"request_id"`
	OwnerID            uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Sides              string    `gorm:"column:sides" json:"sides"`
	FieldsCount        int       `gorm:"column:fields_count" json:"fields_count"`
	DynamicFieldsCount int       `gorm:"column:dynamic_fields_count" json:"dynamic_fields_count"`
	HasQRCode          bool      `gorm:"column:has_qr_code" json:"has_qr_code"`
	Success            bool      `gorm:"column:success;not null" json:"success"`
	CostUSD            float64   `gorm:"column:cost_usd" json:"cost_usd"`
	DurationMS         int64     `gorm:"column:duration_ms" json:"duration_ms"`
	Error              string    `gorm:"column:error" json:"error,omitempty"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}

func (ScanAudit) TableName() string {
	return "scan_audit"
}
