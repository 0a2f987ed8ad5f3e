package app

import (
	"strings"
	"time"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/utils"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	JWTSecretKey string
	ScanTokenTTL time.Duration

	MonthlyBudgetUSD   float64
	RateLimitPerMinute int
	AllowedOrigins     []string

	GeminiAPIKey     string
	GeminiModel      string
	OCRLanguageHints []string
	ProfileBaseURL   string
}

func LoadConfig(log *logger.Logger) Config {
	tokenTTLSeconds := utils.GetEnvAsInt("SCAN_TOKEN_TTL", 900, log)
	return Config{
		Port:        utils.GetEnv("PORT", "8080", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),

		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		ScanTokenTTL: time.Duration(tokenTTLSeconds) * time.Second,

		MonthlyBudgetUSD:   utils.GetEnvAsFloat("MONTHLY_BUDGET_USD", 5.0, log),
		RateLimitPerMinute: utils.GetEnvAsInt("SCAN_RATE_LIMIT_PER_MINUTE", 10, log),
		AllowedOrigins:     splitCSV(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log)),

		GeminiAPIKey:     utils.GetEnv("GEMINI_API_KEY", "", log),
		GeminiModel:      utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", log),
		OCRLanguageHints: splitCSV(utils.GetEnv("OCR_LANGUAGE_HINTS", "en,es,fr,de,pt", log)),
		ProfileBaseURL:   utils.GetEnv("PROFILE_BASE_URL", "https://tapfolio.app", log),
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
