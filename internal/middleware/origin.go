package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

type OriginMiddleware struct {
	log     *logger.Logger
	allowed []string
}

func NewOriginMiddleware(log *logger.Logger, allowedOrigins []string) *OriginMiddleware {
	return &OriginMiddleware{
		log:     log.With("middleware", "OriginMiddleware"),
		allowed: allowedOrigins,
	}
}

// RequireAllowedOrigin rejects browser requests from origins outside the
// allow-list. Requests without an Origin header (server-to-server, curl)
// pass through; the scan token is the real gate for those.
func (om *OriginMiddleware) RequireAllowedOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin == "" || len(om.allowed) == 0 {
			c.Next()
			return
		}
		for _, allowed := range om.allowed {
			if strings.EqualFold(origin, allowed) {
				c.Next()
				return
			}
		}
		om.log.Warn("request from disallowed origin", "origin", origin)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
	}
}
