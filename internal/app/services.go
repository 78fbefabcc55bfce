package app

import (
	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/platform/logger"
	"github.com/lipish/corexia/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Dataset  services.DatasetService
	Finetune services.FinetuneService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:     services.NewAuthService(log, clients.Revocations, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Dataset:  services.NewDatasetService(db, log, reposet.Dataset, reposet.Sample, reposet.Finetune),
		Finetune: services.NewFinetuneService(db, log, reposet.Dataset, reposet.Finetune),
	}
}
