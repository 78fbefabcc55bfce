package datasets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/lipish/corexia/internal/domain"
	"github.com/lipish/corexia/internal/platform/dbctx"
	"github.com/lipish/corexia/internal/platform/logger"
)

type FinetuneRepo interface {
	// EnsureFinetune creates the shadow row if missing; created reports whether it did.
	EnsureFinetune(dbc dbctx.Context, finetuneID uuid.UUID) (created bool, err error)
	// Link inserts the pair, ignoring an existing identical pair.
	Link(dbc dbctx.Context, finetuneID, datasetID uuid.UUID) (created bool, err error)
	CountLinks(dbc dbctx.Context, finetuneID, datasetID uuid.UUID) (int64, error)
	DeleteLinksByDatasetID(dbc dbctx.Context, datasetID uuid.UUID) (int64, error)
}

type finetuneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFinetuneRepo(db *gorm.DB, baseLog *logger.Logger) FinetuneRepo {
	return &finetuneRepo{
		db:  db,
		log: baseLog.With("repo", "FinetuneRepo"),
	}
}

func (r *finetuneRepo) EnsureFinetune(dbc dbctx.Context, finetuneID uuid.UUID) (bool, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	if finetuneID == uuid.Nil {
		return false, nil
	}
	row := &types.Finetune{ID: finetuneID, CreatedAt: time.Now().UTC()}
	res := tx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *finetuneRepo) Link(dbc dbctx.Context, finetuneID, datasetID uuid.UUID) (bool, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	if finetuneID == uuid.Nil || datasetID == uuid.Nil {
		return false, nil
	}
	row := &types.FinetuneDataset{
		FinetuneID: finetuneID,
		DatasetID:  datasetID,
		CreatedAt:  time.Now().UTC(),
	}
	res := tx.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *finetuneRepo) CountLinks(dbc dbctx.Context, finetuneID, datasetID uuid.UUID) (int64, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	var n int64
	if err := tx.WithContext(dbc.Ctx).
		Model(&types.FinetuneDataset{}).
		Where("finetune_id = ? AND dataset_id = ?", finetuneID, datasetID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *finetuneRepo) DeleteLinksByDatasetID(dbc dbctx.Context, datasetID uuid.UUID) (int64, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	if datasetID == uuid.Nil {
		return 0, nil
	}
	res := tx.WithContext(dbc.Ctx).
		Where("dataset_id = ?", datasetID).
		Delete(&types.FinetuneDataset{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
