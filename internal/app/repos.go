package app

import (
	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/data/repos"
	"github.com/lipish/corexia/internal/platform/logger"
)

type Repos struct {
	Dataset  repos.DatasetRepo
	Sample   repos.SampleRepo
	Finetune repos.FinetuneRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Dataset:  repos.NewDatasetRepo(db, log),
		Sample:   repos.NewSampleRepo(db, log),
		Finetune: repos.NewFinetuneRepo(db, log),
	}
}
