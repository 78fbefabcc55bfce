package datasets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lipish/corexia/internal/domain"
	"github.com/lipish/corexia/internal/platform/dbctx"
	"github.com/lipish/corexia/internal/platform/logger"
)

// ListOptions bounds a listing; zero values mean unbounded.
type ListOptions struct {
	Limit  int
	Offset int
}

type DatasetRepo interface {
	Create(dbc dbctx.Context, rows []*types.Dataset) ([]*types.Dataset, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Dataset, error)
	List(dbc dbctx.Context, opts ListOptions) ([]*types.Dataset, error)
	ListByFinetuneID(dbc dbctx.Context, finetuneID uuid.UUID) ([]*types.Dataset, error)
	IncrementAggregates(dbc dbctx.Context, id uuid.UUID, deltaCount, deltaBytes int64, at time.Time) (int64, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type datasetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDatasetRepo(db *gorm.DB, baseLog *logger.Logger) DatasetRepo {
	return &datasetRepo{
		db:  db,
		log: baseLog.With("repo", "DatasetRepo"),
	}
}

func (r *datasetRepo) Create(dbc dbctx.Context, rows []*types.Dataset) ([]*types.Dataset, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Dataset{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *datasetRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Dataset, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Dataset
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *datasetRepo) List(dbc dbctx.Context, opts ListOptions) ([]*types.Dataset, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Order("id DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	out := []*types.Dataset{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *datasetRepo) ListByFinetuneID(dbc dbctx.Context, finetuneID uuid.UUID) ([]*types.Dataset, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Dataset{}
	if finetuneID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN finetune_datasets ON finetune_datasets.dataset_id = datasets.id").
		Where("finetune_datasets.finetune_id = ?", finetuneID).
		Order("datasets.created_at DESC").
		Order("datasets.id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementAggregates applies a store-evaluated delta to the derived columns.
// It never reads the current values, so concurrent callers compose.
func (r *datasetRepo) IncrementAggregates(dbc dbctx.Context, id uuid.UUID, deltaCount, deltaBytes int64, at time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return 0, nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Dataset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"samples_count": gorm.Expr("samples_count + ?", deltaCount),
			"size_bytes":    gorm.Expr("size_bytes + ?", deltaBytes),
			"updated_at":    at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *datasetRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Dataset{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
