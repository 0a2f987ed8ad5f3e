package app

import (
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/scan"
	"github.com/tapfolio/cardscan-backend/internal/services"
)

type Services struct {
	ScanToken services.ScanTokenService
	Budget    services.BudgetService
	Scan      services.ScanService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	estimator := scan.NewCostEstimator(cfg.GeminiModel)
	ocrAdapter := scan.NewOCRAdapter(log, clients.Vision, cfg.OCRLanguageHints)
	qrAdapter := scan.NewQRAdapter(log)
	extractor := scan.NewAIFieldExtractor(log, clients.Gemini, estimator)
	orchestrator := scan.NewOrchestrator(log, ocrAdapter, qrAdapter, extractor, estimator)
	greeter := scan.NewGreeter(log, clients.Gemini, cfg.ProfileBaseURL)

	tokenService := services.NewScanTokenService(db, log, reposet.ScanToken, cfg.JWTSecretKey, cfg.ScanTokenTTL)
	budgetService := services.NewBudgetService(db, log, reposet.UsageRecord, cfg.MonthlyBudgetUSD)
	scanService := services.NewScanService(db, log, orchestrator, greeter, estimator, tokenService, budgetService, reposet.ScanAudit, cfg.GeminiModel)

	return Services{
		ScanToken: tokenService,
		Budget:    budgetService,
		Scan:      scanService,
	}
}
