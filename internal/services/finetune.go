package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/data/repos"
	types "github.com/lipish/corexia/internal/domain"
	"github.com/lipish/corexia/internal/observability"
	"github.com/lipish/corexia/internal/platform/dbctx"
	"github.com/lipish/corexia/internal/platform/logger"
)

type LinkResult struct {
	FinetuneID uuid.UUID
	DatasetID  uuid.UUID
	// Created is false when the pair was already linked.
	Created bool
}

type FinetuneService interface {
	LinkDatasetToFinetune(ctx context.Context, finetuneID, datasetID uuid.UUID) (*LinkResult, error)
	ListFinetuneDatasets(ctx context.Context, finetuneID uuid.UUID) ([]*types.Dataset, error)
}

type finetuneService struct {
	db           *gorm.DB
	log          *logger.Logger
	datasetRepo  repos.DatasetRepo
	finetuneRepo repos.FinetuneRepo
}

func NewFinetuneService(db *gorm.DB, log *logger.Logger, datasetRepo repos.DatasetRepo, finetuneRepo repos.FinetuneRepo) FinetuneService {
	return &finetuneService{
		db:           db,
		log:          log.With("service", "FinetuneService"),
		datasetRepo:  datasetRepo,
		finetuneRepo: finetuneRepo,
	}
}

func (s *finetuneService) LinkDatasetToFinetune(ctx context.Context, finetuneID, datasetID uuid.UUID) (res *LinkResult, err error) {
	ctx, span := observability.Tracer().Start(ctx, "FinetuneService.LinkDatasetToFinetune",
		trace.WithAttributes(
			attribute.String("finetune.id", finetuneID.String()),
			attribute.String("dataset.id", datasetID.String()),
		))
	defer func() { endSpan(span, err) }()

	if finetuneID == uuid.Nil {
		return nil, invalidArgument("finetune id is required")
	}
	if datasetID == uuid.Nil {
		return nil, invalidArgument("dataset id is required")
	}

	var created bool
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ds, err := s.datasetRepo.GetByID(dbc, datasetID)
		if err != nil {
			return classifyStoreError("load dataset", err)
		}
		if ds == nil {
			return notFound("dataset %s", datasetID)
		}
		if _, err := s.finetuneRepo.EnsureFinetune(dbc, finetuneID); err != nil {
			return classifyStoreError("ensure finetune", err)
		}
		created, err = s.finetuneRepo.Link(dbc, finetuneID, datasetID)
		if err != nil {
			return classifyStoreError("link dataset", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, classifyStoreError("link dataset to finetune", txErr)
	}
	observability.Current().IncFinetuneLink(created)
	s.log.Info("dataset linked to finetune", "finetune_id", finetuneID, "dataset_id", datasetID, "created", created)
	return &LinkResult{FinetuneID: finetuneID, DatasetID: datasetID, Created: created}, nil
}

func (s *finetuneService) ListFinetuneDatasets(ctx context.Context, finetuneID uuid.UUID) ([]*types.Dataset, error) {
	rows, err := s.datasetRepo.ListByFinetuneID(dbctx.Context{Ctx: ctx}, finetuneID)
	if err != nil {
		return nil, classifyStoreError("list finetune datasets", err)
	}
	return rows, nil
}
