package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/middleware"
	"github.com/tapfolio/cardscan-backend/internal/services"
)

type TokenHandler struct {
	log          *logger.Logger
	tokenService services.ScanTokenService
	budget       services.BudgetService
}

func NewTokenHandler(log *logger.Logger, tokenService services.ScanTokenService, budget services.BudgetService) *TokenHandler {
	return &TokenHandler{
		log:          log.With("handler", "TokenHandler"),
		tokenService: tokenService,
		budget:       budget,
	}
}

// POST /api/scan-tokens
func (h *TokenHandler) Issue(c *gin.Context) {
	owner, ok := middleware.OwnerFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", fmt.Errorf("missing owner identity"))
		return
	}

	token, row, err := h.tokenService.Issue(c.Request.Context(), owner.ID, owner.Name)
	if err != nil {
		h.log.Error("scan token issuance failed", "owner_id", owner.ID, "error", err)
		RespondError(c, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", err)
		return
	}

	RespondOK(c, gin.H{
		"scanToken": token,
		"expiresAt": row.ExpiresAt,
	})
}

// GET /api/usage
func (h *TokenHandler) Usage(c *gin.Context) {
	owner, ok := middleware.OwnerFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", fmt.Errorf("missing owner identity"))
		return
	}

	spent, err := h.budget.MonthToDate(c.Request.Context(), owner.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "USAGE_LOOKUP_FAILED", err)
		return
	}

	RespondOK(c, gin.H{
		"ownerId":        owner.ID,
		"monthToDateUSD": spent,
	})
}
