package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tapfolio/cardscan-backend/internal/handlers"
	"github.com/tapfolio/cardscan-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string

	ScanHandler  *handlers.ScanHandler
	TokenHandler *handlers.TokenHandler

	AuthMiddleware      *middleware.AuthMiddleware
	OriginMiddleware    *middleware.OriginMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("cardscan-backend"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Public: unauthenticated visitors holding a single-use scan token.
	public := router.Group("/api/public")
	public.Use(cfg.OriginMiddleware.RequireAllowedOrigin())
	public.Use(cfg.RateLimitMiddleware.LimitScans())
	public.POST("/scan-card", cfg.ScanHandler.ScanCard)

	// Protected: profile owners.
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/scan-tokens", cfg.TokenHandler.Issue)
	protected.GET("/usage", cfg.TokenHandler.Usage)

	return router
}
