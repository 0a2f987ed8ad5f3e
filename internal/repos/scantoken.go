package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

// ErrTokenAlreadyUsed marks a claim attempt that lost the conditional
// update, i.e. the token was consumed by an earlier (or concurrent) scan.
var ErrTokenAlreadyUsed = errors.New("scan token already used")

type ScanTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.ScanToken) (*types.ScanToken, error)
	GetByHash(ctx context.Context, tx *gorm.DB, tokenHash string) (*types.ScanToken, error)
	ClaimIfUnused(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error
}

type scanTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScanTokenRepo(db *gorm.DB, baseLog *logger.Logger) ScanTokenRepo {
	return &scanTokenRepo{db: db, log: baseLog.With("repo", "ScanTokenRepo")}
}

func (r *scanTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.ScanToken) (*types.ScanToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (r *scanTokenRepo) GetByHash(ctx context.Context, tx *gorm.DB, tokenHash string) (*types.ScanToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ScanToken
	if err := transaction.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// ClaimIfUnused flips used=false to true in a single conditional UPDATE.
// Zero rows affected means another request already claimed the token.
func (r *scanTokenRepo) ClaimIfUnused(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	res := transaction.WithContext(ctx).
		Model(&types.ScanToken{}).
		Where("id = ? AND used = ?", tokenID, false).
		Updates(map[string]any{"used": true, "used_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenAlreadyUsed
	}
	return nil
}
