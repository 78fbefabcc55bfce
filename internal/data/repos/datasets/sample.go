package datasets

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/lipish/corexia/internal/domain"
	"github.com/lipish/corexia/internal/platform/dbctx"
	"github.com/lipish/corexia/internal/platform/logger"
)

const sampleInsertBatchSize = 500

// SampleRepo is the append-only sample store. It never touches dataset aggregates.
type SampleRepo interface {
	Append(dbc dbctx.Context, datasetID uuid.UUID, docs []json.RawMessage) (appended int64, bytes int64, err error)
	ListByDatasetID(dbc dbctx.Context, datasetID uuid.UUID, opts ListOptions) ([]*types.Sample, error)
	CountByDatasetID(dbc dbctx.Context, datasetID uuid.UUID) (int64, error)
	DeleteByDatasetID(dbc dbctx.Context, datasetID uuid.UUID) (int64, error)
}

type sampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSampleRepo(db *gorm.DB, baseLog *logger.Logger) SampleRepo {
	return &sampleRepo{
		db:  db,
		log: baseLog.With("repo", "SampleRepo"),
	}
}

// Append inserts one row per document in input order and returns the
// inserted count with the summed document bytes.
func (r *sampleRepo) Append(dbc dbctx.Context, datasetID uuid.UUID, docs []json.RawMessage) (int64, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(docs) == 0 {
		return 0, 0, nil
	}
	now := time.Now().UTC()
	rows := make([]*types.Sample, 0, len(docs))
	var bytes int64
	for _, doc := range docs {
		rows = append(rows, &types.Sample{
			DatasetID: datasetID,
			Content:   datatypes.JSON(doc),
			CreatedAt: now,
		})
		bytes += int64(len(doc))
	}
	res := transaction.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		CreateInBatches(&rows, sampleInsertBatchSize)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	return res.RowsAffected, bytes, nil
}

func (r *sampleRepo) ListByDatasetID(dbc dbctx.Context, datasetID uuid.UUID, opts ListOptions) ([]*types.Sample, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Sample{}
	if datasetID == uuid.Nil {
		return out, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("dataset_id = ?", datasetID).
		Order("id ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sampleRepo) CountByDatasetID(dbc dbctx.Context, datasetID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Sample{}).
		Where("dataset_id = ?", datasetID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sampleRepo) DeleteByDatasetID(dbc dbctx.Context, datasetID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if datasetID == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("dataset_id = ?", datasetID).
		Delete(&types.Sample{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
