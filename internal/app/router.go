package app

import (
	"github.com/gin-gonic/gin"

	"github.com/tapfolio/cardscan-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins:      cfg.AllowedOrigins,
		ScanHandler:         handlers.Scan,
		TokenHandler:        handlers.Token,
		AuthMiddleware:      middleware.Auth,
		OriginMiddleware:    middleware.Origin,
		RateLimitMiddleware: middleware.RateLimit,
	})
}
