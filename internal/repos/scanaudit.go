package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

type ScanAuditRepo interface {
	Create(ctx context.Context, tx *gorm.DB, audit *types.ScanAudit) (*types.ScanAudit, error)
}

type scanAuditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScanAuditRepo(db *gorm.DB, baseLog *logger.Logger) ScanAuditRepo {
	return &scanAuditRepo{db: db, log: baseLog.With("repo", "ScanAuditRepo")}
}

func (r *scanAuditRepo) Create(ctx context.Context, tx *gorm.DB, audit *types.ScanAudit) (*types.ScanAudit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(audit).Error; err != nil {
		return nil, err
	}
	return audit, nil
}
