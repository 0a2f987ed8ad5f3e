package app

import (
	"github.com/tapfolio/cardscan-backend/internal/handlers"
	"github.com/tapfolio/cardscan-backend/internal/logger"
)

type Handlers struct {
	Scan  *handlers.ScanHandler
	Token *handlers.TokenHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Scan:  handlers.NewScanHandler(log, services.Scan),
		Token: handlers.NewTokenHandler(log, services.ScanToken, services.Budget),
	}
}
