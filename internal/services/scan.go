package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/repos"
	"github.com/tapfolio/cardscan-backend/internal/scan"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

type ScanCardRequest struct {
	Images    map[scan.Side]string
	ScanToken string
	Language  string
	RequestID string
}

type ScanCardResult struct {
	Merged         scan.MergedResult
	Message        *scan.PersonalizedMessage
	SidesProcessed []scan.Side
	Duration       time.Duration
	CostUSD        float64
}

// ScanService sequences the request-level state machine around the scan
// pipeline: token verification, budget pre-check, concurrent side
// processing, greeting, token claim and usage recording.
type ScanService interface {
	ScanCard(ctx context.Context, req ScanCardRequest) (*ScanCardResult, error)
}

type scanService struct {
	db           *gorm.DB
	log          *logger.Logger
	orchestrator *scan.Orchestrator
	greeter      *scan.Greeter
	estimator    *scan.CostEstimator
	tokenService ScanTokenService
	budget       BudgetService
	auditRepo    repos.ScanAuditRepo
	model        string
}

func NewScanService(
	db *gorm.DB,
	log *logger.Logger,
	orchestrator *scan.Orchestrator,
	greeter *scan.Greeter,
	estimator *scan.CostEstimator,
	tokenService ScanTokenService,
	budget BudgetService,
	auditRepo repos.ScanAuditRepo,
	model string,
) ScanService {
	return &scanService{
		db:           db,
		log:          log.With("service", "ScanService"),
		orchestrator: orchestrator,
		greeter:      greeter,
		estimator:    estimator,
		tokenService: tokenService,
		budget:       budget,
		auditRepo:    auditRepo,
		model:        model,
	}
}

func (s *scanService) ScanCard(ctx context.Context, req ScanCardRequest) (*ScanCardResult, error) {
	if req.ScanToken == "" {
		return nil, fmt.Errorf("%w: scanToken is required", ErrInvalidRequest)
	}
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrInvalidRequest)
	}

	// Authorization before any provider call; an already-used or expired
	// token never reaches the extraction pipeline.
	claims, err := s.tokenService.Verify(ctx, req.ScanToken)
	if err != nil {
		return nil, err
	}

	estimate := s.estimator.PreEstimate(len(req.Images))
	canAfford, err := s.budget.CanAffordOperation(ctx, claims.OwnerID, estimate, 1)
	if err != nil {
		return nil, fmt.Errorf("budget check: %w", err)
	}
	if !canAfford {
		return nil, ErrBudgetExceeded
	}

	outcome, err := s.orchestrator.Scan(ctx, scan.ScanRequest{
		Images:   req.Images,
		Language: req.Language,
	})
	if err != nil {
		s.audit(ctx, req, claims.OwnerID, nil, err)
		if isInputError(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, err
	}

	var message *scan.PersonalizedMessage
	if name := extractedName(outcome.Merged.ParsedFields); name != "" {
		msg := s.greeter.Generate(ctx, name, claims.OwnerName, req.Language)
		message = &msg
	}

	// The single-use claim happens exactly once, after merge and costing.
	// Losing the conditional update means a concurrent request consumed
	// the token first; its work stands, ours is discarded.
	if err := s.tokenService.MarkUsed(ctx, claims.TokenID); err != nil {
		s.audit(ctx, req, claims.OwnerID, outcome, err)
		return nil, err
	}

	if err := s.budget.RecordUsage(ctx, claims.OwnerID, outcome.CostUSD, s.model, "card_scan", map[string]any{
		"requestId":      req.RequestID,
		"sidesProcessed": sidesToStrings(outcome.SidesProcessed),
		"fieldsCount":    outcome.Merged.Metadata.FieldsCount,
		"hasQRCode":      outcome.Merged.Metadata.HasQRCode,
		"durationMs":     outcome.Duration.Milliseconds(),
	}, "ai_scan"); err != nil {
		s.log.Error("usage recording failed", "request_id", req.RequestID, "error", err)
	}

	s.audit(ctx, req, claims.OwnerID, outcome, nil)

	return &ScanCardResult{
		Merged:         outcome.Merged,
		Message:        message,
		SidesProcessed: outcome.SidesProcessed,
		Duration:       outcome.Duration,
		CostUSD:        outcome.CostUSD,
	}, nil
}

func (s *scanService) audit(ctx context.Context, req ScanCardRequest, ownerID uuid.UUID, outcome *scan.ScanOutcome, scanErr error) {
	row := &types.ScanAudit{
		ID:        uuid.New(),
		RequestID: req.RequestID,
		OwnerID:   ownerID,
	}
	if outcome != nil {
		row.Sides = strings.Join(sidesToStrings(outcome.SidesProcessed), ",")
		row.FieldsCount = outcome.Merged.Metadata.FieldsCount
		row.DynamicFieldsCount = outcome.Merged.Metadata.DynamicFieldsCount
		row.HasQRCode = outcome.Merged.Metadata.HasQRCode
		row.Success = outcome.Merged.Success && scanErr == nil
		row.CostUSD = outcome.CostUSD
		row.DurationMS = outcome.Duration.Milliseconds()
	}
	if scanErr != nil {
		row.Error = scanErr.Error()
	}
	if _, err := s.auditRepo.Create(ctx, nil, row); err != nil {
		s.log.Warn("scan audit write failed", "request_id", req.RequestID, "error", err)
	}
}

func extractedName(fields []scan.ScanField) string {
	for _, f := range fields {
		if strings.EqualFold(f.Label, "name") && strings.TrimSpace(f.Value) != "" {
			return f.Value
		}
	}
	return ""
}

func sidesToStrings(sides []scan.Side) []string {
	out := make([]string, 0, len(sides))
	for _, s := range sides {
		out = append(out, string(s))
	}
	return out
}

func isInputError(err error) bool {
	return errors.Is(err, scan.ErrInvalidImageFormat) ||
		errors.Is(err, scan.ErrImageTooSmall) ||
		errors.Is(err, scan.ErrImageTooLarge)
}
