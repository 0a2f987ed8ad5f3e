package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

type UsageRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.UsageRecord) (*types.UsageRecord, error)
	SumSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, since time.Time) (float64, error)
}

type usageRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageRecordRepo(db *gorm.DB, baseLog *logger.Logger) UsageRecordRepo {
	return &usageRecordRepo{db: db, log: baseLog.With("repo", "UsageRecordRepo")}
}

func (r *usageRecordRepo) Create(ctx context.Context, tx *gorm.DB, record *types.UsageRecord) (*types.UsageRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *usageRecordRepo) SumSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, since time.Time) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total *float64
	if err := transaction.WithContext(ctx).
		Model(&types.UsageRecord{}).
		Select("SUM(cost_usd)").
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
