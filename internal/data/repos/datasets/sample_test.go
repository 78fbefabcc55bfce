package datasets

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lipish/corexia/internal/data/repos/testutil"
	"github.com/lipish/corexia/internal/platform/dbctx"
)

func TestSampleRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSampleRepo(db, testutil.Logger(t))

	ds := testutil.SeedDataset(t, ctx, tx, "samples", time.Time{})

	docs := []json.RawMessage{
		json.RawMessage(`{"prompt":"hi","completion":"hello"}`),
		json.RawMessage(`[1,2,3]`),
		json.RawMessage(`"plain"`),
	}
	var wantBytes int64
	for _, d := range docs {
		wantBytes += int64(len(d))
	}

	n, bytes, err := repo.Append(dbc, ds.ID, docs)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n != 3 || bytes != wantBytes {
		t.Fatalf("Append: want=3/%d got=%d/%d", wantBytes, n, bytes)
	}

	if n, bytes, err := repo.Append(dbc, ds.ID, nil); err != nil || n != 0 || bytes != 0 {
		t.Fatalf("Append empty: err=%v n=%d bytes=%d", err, n, bytes)
	}

	if c, err := repo.CountByDatasetID(dbc, ds.ID); err != nil || c != 3 {
		t.Fatalf("CountByDatasetID: err=%v count=%d", err, c)
	}

	rows, err := repo.ListByDatasetID(dbc, ds.ID, ListOptions{})
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByDatasetID: err=%v len=%d", err, len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ID >= rows[i].ID {
			t.Fatalf("ListByDatasetID: rows out of insertion order at %d", i)
		}
	}
	var first map[string]string
	if err := json.Unmarshal(rows[0].Content, &first); err != nil || first["prompt"] != "hi" {
		t.Fatalf("first sample content: err=%v got=%s", err, string(rows[0].Content))
	}

	page, err := repo.ListByDatasetID(dbc, ds.ID, ListOptions{Limit: 1, Offset: 1})
	if err != nil || len(page) != 1 || page[0].ID != rows[1].ID {
		t.Fatalf("ListByDatasetID page: err=%v len=%d", err, len(page))
	}

	if rows, err := repo.ListByDatasetID(dbc, uuid.New(), ListOptions{}); err != nil || len(rows) != 0 {
		t.Fatalf("ListByDatasetID unknown: err=%v len=%d", err, len(rows))
	}

	if n, err := repo.DeleteByDatasetID(dbc, ds.ID); err != nil || n != 3 {
		t.Fatalf("DeleteByDatasetID: err=%v n=%d", err, n)
	}
	if c, err := repo.CountByDatasetID(dbc, ds.ID); err != nil || c != 0 {
		t.Fatalf("CountByDatasetID after delete: err=%v count=%d", err, c)
	}
}

func TestSampleRepoCascadesWithDataset(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	samples := NewSampleRepo(db, testutil.Logger(t))
	datasets := NewDatasetRepo(db, testutil.Logger(t))

	ds := testutil.SeedDataset(t, ctx, tx, "cascade", time.Time{})
	if _, _, err := samples.Append(dbc, ds.ID, []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`1`)}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := datasets.DeleteByID(dbc, ds.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if c, err := samples.CountByDatasetID(dbc, ds.ID); err != nil || c != 0 {
		t.Fatalf("samples after dataset delete: err=%v count=%d", err, c)
	}
}

func TestSampleRepoRejectsUnknownDataset(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewSampleRepo(db, testutil.Logger(t))

	if _, _, err := repo.Append(dbc, uuid.New(), []json.RawMessage{json.RawMessage(`{}`)}); err == nil {
		t.Fatalf("Append to unknown dataset: want error got=nil")
	}
}
