package app

import (
	"time"

	"github.com/tapfolio/cardscan-backend/internal/clients/gcp"
	"github.com/tapfolio/cardscan-backend/internal/clients/gemini"
	redisclient "github.com/tapfolio/cardscan-backend/internal/clients/redis"
	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/scan"
)

type Clients struct {
	Vision  scan.TextDetector
	Gemini  *gemini.Client
	Limiter redisclient.Limiter

	closers []func() error
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var clients Clients

	vision, closeVision, err := gcp.NewVisionDetector(log)
	if err != nil {
		return clients, err
	}
	clients.Vision = vision
	clients.closers = append(clients.closers, closeVision)

	gem, err := gemini.NewClient(log, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return clients, err
	}
	clients.Gemini = gem
	clients.closers = append(clients.closers, gem.Close)

	limiter, err := redisclient.NewLimiter(log, cfg.RateLimitPerMinute, time.Minute)
	if err != nil {
		// Redis is optional: without it the scan route runs unthrottled
		// behind the single-use token.
		log.Warn("Could not init redis limiter, rate limiting disabled", "error", err)
	} else {
		clients.Limiter = limiter
		clients.closers = append(clients.closers, limiter.Close)
	}

	return clients, nil
}

func (c Clients) Close() {
	for _, closeFn := range c.closers {
		_ = closeFn()
	}
}
