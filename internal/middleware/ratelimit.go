package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	redisclient "github.com/tapfolio/cardscan-backend/internal/clients/redis"
	"github.com/tapfolio/cardscan-backend/internal/logger"
)

type RateLimitMiddleware struct {
	log     *logger.Logger
	limiter redisclient.Limiter
}

func NewRateLimitMiddleware(log *logger.Logger, limiter redisclient.Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		log:     log.With("middleware", "RateLimitMiddleware"),
		limiter: limiter,
	}
}

// LimitScans counts requests per client IP. With no limiter configured
// (e.g. local development without redis) it is a no-op.
func (rm *RateLimitMiddleware) LimitScans() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.limiter == nil {
			c.Next()
			return
		}
		allowed, err := rm.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Limiter failures fail open; the scan itself is still guarded
			// by the single-use token.
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate limit exceeded",
				"code":    "RATE_LIMIT_EXCEEDED",
			})
			return
		}
		c.Next()
	}
}
