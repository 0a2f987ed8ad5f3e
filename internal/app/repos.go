package app

import (
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/repos"
)

type Repos struct {
	ScanToken   repos.ScanTokenRepo
	UsageRecord repos.UsageRecordRepo
	ScanAudit   repos.ScanAuditRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ScanToken:   repos.NewScanTokenRepo(db, log),
		UsageRecord: repos.NewUsageRecordRepo(db, log),
		ScanAudit:   repos.NewScanAuditRepo(db, log),
	}
}
