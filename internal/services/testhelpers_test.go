package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/data/repos"
	"github.com/lipish/corexia/internal/data/repos/testutil"
	types "github.com/lipish/corexia/internal/domain"
	"github.com/lipish/corexia/internal/platform/dbctx"
)

type serviceFixture struct {
	db           *gorm.DB
	datasetRepo  repos.DatasetRepo
	sampleRepo   repos.SampleRepo
	finetuneRepo repos.FinetuneRepo
	datasets     DatasetService
	finetunes    FinetuneService
}

// newServiceFixture runs every service against testutil.DB: Postgres with a
// real connection pool when TEST_POSTGRES_DSN is set, a private SQLite file
// otherwise. The database may be shared, so assertions must stay per-id.
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	return buildServiceFixture(t, testutil.DB(t))
}

// newPrivateServiceFixture is for assertions over whole tables, such as
// global list ordering.
func newPrivateServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	return buildServiceFixture(t, testutil.SQLiteDB(t))
}

func buildServiceFixture(t *testing.T, db *gorm.DB) *serviceFixture {
	t.Helper()
	log := testutil.Logger(t)
	f := &serviceFixture{
		db:           db,
		datasetRepo:  repos.NewDatasetRepo(db, log),
		sampleRepo:   repos.NewSampleRepo(db, log),
		finetuneRepo: repos.NewFinetuneRepo(db, log),
	}
	f.datasets = NewDatasetService(db, log, f.datasetRepo, f.sampleRepo, f.finetuneRepo)
	f.finetunes = NewFinetuneService(db, log, f.datasetRepo, f.finetuneRepo)
	return f
}

// uniqueName keeps dataset names distinct on a shared database.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func (f *serviceFixture) countDatasetsNamed(t *testing.T, name string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&types.Dataset{}).Where("name = ?", name).Count(&n).Error; err != nil {
		t.Fatalf("count datasets: %v", err)
	}
	return n
}

func (f *serviceFixture) countSamples(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	n, err := f.sampleRepo.CountByDatasetID(dbctx.Context{Ctx: context.Background()}, id)
	if err != nil {
		t.Fatalf("count samples: %v", err)
	}
	return n
}

func docs(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(raw))
	for _, r := range raw {
		out = append(out, json.RawMessage(r))
	}
	return out
}

var errInduced = errors.New("induced failure")

// failAfterAppendRepo inserts the samples and then fails, leaving the
// surrounding transaction to roll the rows back.
type failAfterAppendRepo struct {
	repos.SampleRepo
	seen *uuid.UUID
}

func (r failAfterAppendRepo) Append(dbc dbctx.Context, datasetID uuid.UUID, d []json.RawMessage) (int64, int64, error) {
	if r.seen != nil {
		*r.seen = datasetID
	}
	if _, _, err := r.SampleRepo.Append(dbc, datasetID, d); err != nil {
		return 0, 0, err
	}
	return 0, 0, errInduced
}
