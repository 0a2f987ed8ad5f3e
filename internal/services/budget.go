package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/repos"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

// BudgetService guards owner spend: a pre-flight affordability check
// against month-to-date usage, and the usage write once an operation
// completes. Both sides price through the same estimator upstream.
type BudgetService interface {
	CanAffordOperation(ctx context.Context, ownerID uuid.UUID, estimatedCost float64, count int) (bool, error)
	RecordUsage(ctx context.Context, ownerID uuid.UUID, cost float64, model, operation string, metadata map[string]any, kind string) error
	MonthToDate(ctx context.Context, ownerID uuid.UUID) (float64, error)
}

type budgetService struct {
	db            *gorm.DB
	log           *logger.Logger
	usageRepo     repos.UsageRecordRepo
	monthlyBudget float64
}

func NewBudgetService(db *gorm.DB, log *logger.Logger, usageRepo repos.UsageRecordRepo, monthlyBudget float64) BudgetService {
	return &budgetService{
		db:            db,
		log:           log.With("service", "BudgetService"),
		usageRepo:     usageRepo,
		monthlyBudget: monthlyBudget,
	}
}

func (s *budgetService) CanAffordOperation(ctx context.Context, ownerID uuid.UUID, estimatedCost float64, count int) (bool, error) {
	spent, err := s.MonthToDate(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return spent+estimatedCost*float64(count) <= s.monthlyBudget, nil
}

func (s *budgetService) RecordUsage(ctx context.Context, ownerID uuid.UUID, cost float64, model, operation string, metadata map[string]any, kind string) error {
	var meta datatypes.JSON
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshal usage metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}
	record := &types.UsageRecord{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CostUSD:   cost,
		Model:     model,
		Operation: operation,
		Kind:      kind,
		Metadata:  meta,
	}
	if _, err := s.usageRepo.Create(ctx, nil, record); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

func (s *budgetService) MonthToDate(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	spent, err := s.usageRepo.SumSince(ctx, nil, ownerID, monthStart)
	if err != nil {
		return 0, fmt.Errorf("sum usage: %w", err)
	}
	return spent, nil
}
