package app

import (
	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/middleware"
)

type Middleware struct {
	Auth      *middleware.AuthMiddleware
	Origin    *middleware.OriginMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config, clients Clients) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:      middleware.NewAuthMiddleware(log, cfg.JWTSecretKey),
		Origin:    middleware.NewOriginMiddleware(log, cfg.AllowedOrigins),
		RateLimit: middleware.NewRateLimitMiddleware(log, clients.Limiter),
	}
}
