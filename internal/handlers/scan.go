package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/scan"
	"github.com/tapfolio/cardscan-backend/internal/services"
)

type ScanHandler struct {
	log         *logger.Logger
	scanService services.ScanService
}

func NewScanHandler(log *logger.Logger, scanService services.ScanService) *ScanHandler {
	return &ScanHandler{
		log:         log.With("handler", "ScanHandler"),
		scanService: scanService,
	}
}

type scanCardBody struct {
	Images struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"images"`
	ScanToken string `json:"scanToken"`
	Language  string `json:"language"`
}

type scanCardMetadata struct {
	scan.MergedMetadata
	ScanDuration       int64    `json:"scanDuration"`
	SidesProcessed     []string `json:"sidesProcessed"`
	EnhancedProcessing bool     `json:"enhancedProcessing"`
}

type scanCardResponse struct {
	Success             bool                      `json:"success"`
	ParsedFields        []scan.ScanField          `json:"parsedFields"`
	PersonalizedMessage *scan.PersonalizedMessage `json:"personalizedMessage,omitempty"`
	Metadata            scanCardMetadata          `json:"metadata"`
	RequestID           string                    `json:"requestId"`
}

// POST /api/public/scan-card
func (h *ScanHandler) ScanCard(c *gin.Context) {
	requestID := uuid.New().String()

	var body scanCardBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondScanError(c, http.StatusBadRequest, "INVALID_REQUEST", requestID, err)
		return
	}

	images := map[scan.Side]string{}
	if body.Images.Front != "" {
		images[scan.SideFront] = body.Images.Front
	}
	if body.Images.Back != "" {
		images[scan.SideBack] = body.Images.Back
	}

	result, err := h.scanService.ScanCard(c.Request.Context(), services.ScanCardRequest{
		Images:    images,
		ScanToken: body.ScanToken,
		Language:  body.Language,
		RequestID: requestID,
	})
	if err != nil {
		status, code := scanErrorStatus(err)
		h.log.Warn("scan request failed", "request_id", requestID, "status", status, "error", err)
		RespondScanError(c, status, code, requestID, err)
		return
	}

	sides := make([]string, 0, len(result.SidesProcessed))
	for _, s := range result.SidesProcessed {
		sides = append(sides, string(s))
	}

	RespondOK(c, scanCardResponse{
		Success:             result.Merged.Success,
		ParsedFields:        result.Merged.ParsedFields,
		PersonalizedMessage: result.Message,
		Metadata: scanCardMetadata{
			MergedMetadata:     result.Merged.Metadata,
			ScanDuration:       result.Duration.Milliseconds(),
			SidesProcessed:     sides,
			EnhancedProcessing: true,
		},
		RequestID: requestID,
	})
}

func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenUsed):
		return http.StatusUnauthorized, "INVALID_REQUEST"
	case errors.Is(err, services.ErrBudgetExceeded):
		return http.StatusPaymentRequired, "BUDGET_EXCEEDED"
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"
	default:
		return http.StatusInternalServerError, "SCAN_FAILED"
	}
}
