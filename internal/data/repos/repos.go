package repos

import (
	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/data/repos/datasets"
	"github.com/lipish/corexia/internal/platform/logger"
)

type ListOptions = datasets.ListOptions

type DatasetRepo = datasets.DatasetRepo
type SampleRepo = datasets.SampleRepo
type FinetuneRepo = datasets.FinetuneRepo

func NewDatasetRepo(db *gorm.DB, baseLog *logger.Logger) DatasetRepo {
	return datasets.NewDatasetRepo(db, baseLog)
}
func NewSampleRepo(db *gorm.DB, baseLog *logger.Logger) SampleRepo {
	return datasets.NewSampleRepo(db, baseLog)
}
func NewFinetuneRepo(db *gorm.DB, baseLog *logger.Logger) FinetuneRepo {
	return datasets.NewFinetuneRepo(db, baseLog)
}
