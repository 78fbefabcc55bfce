package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/data/repos"
	types "github.com/lipish/corexia/internal/domain"
	"github.com/lipish/corexia/internal/observability"
	"github.com/lipish/corexia/internal/platform/dbctx"
	"github.com/lipish/corexia/internal/platform/logger"
)

type CreateDatasetInput struct {
	Name        string
	Description *string
	Tags        []string
	Samples     []json.RawMessage
}

type DatasetService interface {
	ListDatasets(ctx context.Context, opts repos.ListOptions) ([]*types.Dataset, error)
	GetDataset(ctx context.Context, id uuid.UUID) (*types.Dataset, error)
	CreateDataset(ctx context.Context, in CreateDatasetInput) (*types.Dataset, error)
	// CreateDatasetWithSamples creates the dataset and its initial samples as one unit.
	CreateDatasetWithSamples(ctx context.Context, in CreateDatasetInput) (*types.Dataset, int64, error)
	// AppendSamples adds docs to an existing dataset and bumps its aggregates in the same transaction.
	AppendSamples(ctx context.Context, id uuid.UUID, docs []json.RawMessage) (*types.Dataset, int64, error)
	DeleteDataset(ctx context.Context, id uuid.UUID) error
	ListSamples(ctx context.Context, id uuid.UUID, opts repos.ListOptions) ([]*types.Sample, error)
}

type datasetService struct {
	db           *gorm.DB
	log          *logger.Logger
	datasetRepo  repos.DatasetRepo
	sampleRepo   repos.SampleRepo
	finetuneRepo repos.FinetuneRepo
}

func NewDatasetService(
	db *gorm.DB,
	log *logger.Logger,
	datasetRepo repos.DatasetRepo,
	sampleRepo repos.SampleRepo,
	finetuneRepo repos.FinetuneRepo,
) DatasetService {
	return &datasetService{
		db:           db,
		log:          log.With("service", "DatasetService"),
		datasetRepo:  datasetRepo,
		sampleRepo:   sampleRepo,
		finetuneRepo: finetuneRepo,
	}
}

func (s *datasetService) ListDatasets(ctx context.Context, opts repos.ListOptions) ([]*types.Dataset, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, invalidArgument("limit and offset must be non-negative")
	}
	rows, err := s.datasetRepo.List(dbctx.Context{Ctx: ctx}, opts)
	if err != nil {
		return nil, classifyStoreError("list datasets", err)
	}
	return rows, nil
}

func (s *datasetService) GetDataset(ctx context.Context, id uuid.UUID) (*types.Dataset, error) {
	row, err := s.datasetRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, classifyStoreError("get dataset", err)
	}
	if row == nil {
		return nil, notFound("dataset %s", id)
	}
	return row, nil
}

func (s *datasetService) CreateDataset(ctx context.Context, in CreateDatasetInput) (*types.Dataset, error) {
	in.Samples = nil
	ds, _, err := s.CreateDatasetWithSamples(ctx, in)
	return ds, err
}

func (s *datasetService) CreateDatasetWithSamples(ctx context.Context, in CreateDatasetInput) (ds *types.Dataset, added int64, err error) {
	ctx, span := observability.Tracer().Start(ctx, "DatasetService.CreateDatasetWithSamples",
		trace.WithAttributes(attribute.Int("dataset.samples.requested", len(in.Samples))))
	defer func() {
		endSpan(span, err)
		observability.Current().ObserveDatasetOp("create", err)
	}()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, 0, invalidArgument("name is required")
	}
	docs, err := normalizeDocs(in.Samples)
	if err != nil {
		return nil, 0, err
	}
	tags := datatypes.JSONSlice[string]{}
	if len(in.Tags) > 0 {
		tags = append(tags, in.Tags...)
	}

	now := time.Now().UTC()
	row := &types.Dataset{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var addedBytes int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.datasetRepo.Create(dbc, []*types.Dataset{row}); err != nil {
			return classifyStoreError("insert dataset", err)
		}
		if len(docs) == 0 {
			return nil
		}
		n, b, err := s.sampleRepo.Append(dbc, row.ID, docs)
		if err != nil {
			return classifyStoreError("insert samples", err)
		}
		if _, err := s.datasetRepo.IncrementAggregates(dbc, row.ID, n, b, now); err != nil {
			return classifyStoreError("update dataset aggregates", err)
		}
		added, addedBytes = n, b
		return nil
	})
	if txErr != nil {
		s.log.Warn("create dataset failed", "error", txErr)
		return nil, 0, classifyStoreError("create dataset", txErr)
	}
	observability.Current().AddSamplesAppended(added, addedBytes)

	ds, err = s.datasetRepo.GetByID(dbctx.Context{Ctx: ctx}, row.ID)
	if err != nil {
		return nil, 0, classifyStoreError("reload dataset", err)
	}
	if ds == nil {
		return nil, 0, notFound("dataset %s", row.ID)
	}
	span.SetAttributes(attribute.String("dataset.id", ds.ID.String()), attribute.Int64("dataset.samples.added", added))
	s.log.Info("dataset created", "dataset_id", ds.ID, "added_samples", added)
	return ds, added, nil
}

func (s *datasetService) AppendSamples(ctx context.Context, id uuid.UUID, docs []json.RawMessage) (ds *types.Dataset, added int64, err error) {
	ctx, span := observability.Tracer().Start(ctx, "DatasetService.AppendSamples",
		trace.WithAttributes(
			attribute.String("dataset.id", id.String()),
			attribute.Int("dataset.samples.requested", len(docs)),
		))
	defer func() {
		endSpan(span, err)
		observability.Current().ObserveDatasetOp("append", err)
	}()

	normalized, err := normalizeDocs(docs)
	if err != nil {
		return nil, 0, err
	}
	if len(normalized) == 0 {
		ds, err = s.GetDataset(ctx, id)
		return ds, 0, err
	}

	var addedBytes int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.datasetRepo.GetByID(dbc, id)
		if err != nil {
			return classifyStoreError("load dataset", err)
		}
		if current == nil {
			return notFound("dataset %s", id)
		}
		n, b, err := s.sampleRepo.Append(dbc, id, normalized)
		if err != nil {
			return classifyStoreError("insert samples", err)
		}
		affected, err := s.datasetRepo.IncrementAggregates(dbc, id, n, b, time.Now().UTC())
		if err != nil {
			return classifyStoreError("update dataset aggregates", err)
		}
		if affected == 0 {
			return notFound("dataset %s", id)
		}
		reloaded, err := s.datasetRepo.GetByID(dbc, id)
		if err != nil {
			return classifyStoreError("reload dataset", err)
		}
		if reloaded == nil {
			return notFound("dataset %s", id)
		}
		ds, added, addedBytes = reloaded, n, b
		return nil
	})
	if txErr != nil {
		return nil, 0, classifyStoreError("append samples", txErr)
	}
	observability.Current().AddSamplesAppended(added, addedBytes)
	span.SetAttributes(attribute.Int64("dataset.samples.added", added))
	s.log.Debug("samples appended", "dataset_id", id, "added_samples", added, "size_bytes", addedBytes)
	return ds, added, nil
}

func (s *datasetService) DeleteDataset(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := observability.Tracer().Start(ctx, "DatasetService.DeleteDataset",
		trace.WithAttributes(attribute.String("dataset.id", id.String())))
	defer func() {
		endSpan(span, err)
		observability.Current().ObserveDatasetOp("delete", err)
	}()

	var removedSamples int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.datasetRepo.GetByID(dbc, id)
		if err != nil {
			return classifyStoreError("load dataset", err)
		}
		if current == nil {
			return notFound("dataset %s", id)
		}
		if _, err := s.finetuneRepo.DeleteLinksByDatasetID(dbc, id); err != nil {
			return classifyStoreError("delete finetune links", err)
		}
		n, err := s.sampleRepo.DeleteByDatasetID(dbc, id)
		if err != nil {
			return classifyStoreError("delete samples", err)
		}
		removedSamples = n
		affected, err := s.datasetRepo.DeleteByID(dbc, id)
		if err != nil {
			return classifyStoreError("delete dataset", err)
		}
		if affected == 0 {
			return notFound("dataset %s", id)
		}
		return nil
	})
	if txErr != nil {
		return classifyStoreError("delete dataset", txErr)
	}
	s.log.Info("dataset deleted", "dataset_id", id, "removed_samples", removedSamples)
	return nil
}

func (s *datasetService) ListSamples(ctx context.Context, id uuid.UUID, opts repos.ListOptions) ([]*types.Sample, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, invalidArgument("limit and offset must be non-negative")
	}
	if _, err := s.GetDataset(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.sampleRepo.ListByDatasetID(dbctx.Context{Ctx: ctx}, id, opts)
	if err != nil {
		return nil, classifyStoreError("list samples", err)
	}
	return rows, nil
}

// normalizeDocs rejects anything that is not a non-null JSON document and
// returns the compacted form that is stored and counted toward size_bytes.
func normalizeDocs(docs []json.RawMessage) ([]json.RawMessage, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]json.RawMessage, 0, len(docs))
	for i, doc := range docs {
		trimmed := bytes.TrimSpace(doc)
		if len(trimmed) == 0 || !json.Valid(trimmed) {
			return nil, invalidArgument("sample %d is not valid JSON", i)
		}
		if bytes.Equal(trimmed, []byte("null")) {
			return nil, invalidArgument("sample %d is null", i)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, invalidArgument("sample %d: %v", i, err)
		}
		out = append(out, json.RawMessage(buf.Bytes()))
	}
	return out, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
