package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/lipish/corexia/internal/data/repos"
	"github.com/lipish/corexia/internal/data/repos/testutil"
	"github.com/lipish/corexia/internal/platform/dbctx"
)

func TestCreateDatasetWithSamples(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	ds, added, err := f.datasets.CreateDatasetWithSamples(ctx, CreateDatasetInput{
		Name:    "alpha",
		Tags:    []string{"x"},
		Samples: docs(`{"a": 1}`, `{"b": 2}`),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), added)
	require.Equal(t, int64(2), ds.SamplesCount)
	require.Equal(t, []string{"x"}, []string(ds.Tags))
	require.Equal(t, int64(len(`{"a":1}`)+len(`{"b":2}`)), ds.SizeBytes)
	require.Equal(t, int64(2), f.countSamples(t, ds.ID))

	got, err := f.datasets.GetDataset(ctx, ds.ID)
	require.NoError(t, err)
	require.Equal(t, ds.SamplesCount, got.SamplesCount)
}

func TestCreateDatasetWithoutSamples(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	desc := "empty"
	ds, err := f.datasets.CreateDataset(ctx, CreateDatasetInput{Name: "  beta  ", Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "beta", ds.Name)
	require.NotNil(t, ds.Description)
	require.Equal(t, "empty", *ds.Description)
	require.NotNil(t, ds.Tags)
	require.Len(t, ds.Tags, 0)
	require.Equal(t, int64(0), ds.SamplesCount)
	require.Equal(t, int64(0), ds.SizeBytes)
	require.NotEqual(t, uuid.Nil, ds.ID)
}

func TestCreateDatasetValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	bad := uniqueName("bad")
	cases := map[string]CreateDatasetInput{
		"blank name":   {Name: "   "},
		"invalid json": {Name: bad, Samples: docs(`{"a":`)},
		"null sample":  {Name: bad, Samples: docs(`null`)},
		"empty sample": {Name: bad, Samples: docs(``)},
	}
	for name, in := range cases {
		_, _, err := f.datasets.CreateDatasetWithSamples(ctx, in)
		require.Truef(t, errors.Is(err, ErrInvalidArgument), "%s: want ErrInvalidArgument got=%v", name, err)
	}
	require.Equal(t, int64(0), f.countDatasetsNamed(t, bad))
}

func TestCreateDatasetRollsBackOnFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	var attempted uuid.UUID
	failing := NewDatasetService(f.db, log, f.datasetRepo, failAfterAppendRepo{SampleRepo: f.sampleRepo, seen: &attempted}, f.finetuneRepo)
	name := uniqueName("doomed")
	_, _, err := failing.CreateDatasetWithSamples(ctx, CreateDatasetInput{
		Name:    name,
		Samples: docs(`1`, `2`, `3`),
	})
	require.ErrorIs(t, err, errInduced)
	require.NotEqual(t, uuid.Nil, attempted)

	require.Equal(t, int64(0), f.countDatasetsNamed(t, name))
	_, err = f.datasets.GetDataset(ctx, attempted)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, int64(0), f.countSamples(t, attempted))
}

func TestAppendSamples(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	ds, err := f.datasets.CreateDataset(ctx, CreateDatasetInput{Name: "gamma"})
	require.NoError(t, err)

	got, added, err := f.datasets.AppendSamples(ctx, ds.ID, docs(`{"q": "hi",  "a": "hello"}`, `[1, 2]`))
	require.NoError(t, err)
	require.Equal(t, int64(2), added)
	require.Equal(t, int64(2), got.SamplesCount)
	require.Equal(t, int64(len(`{"q":"hi","a":"hello"}`)+len(`[1,2]`)), got.SizeBytes)
	require.False(t, got.UpdatedAt.Before(ds.UpdatedAt))

	got, added, err = f.datasets.AppendSamples(ctx, ds.ID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), added)
	require.Equal(t, int64(2), got.SamplesCount)

	samples, err := f.datasets.ListSamples(ctx, ds.ID, repos.ListOptions{})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.JSONEq(t, `{"q":"hi","a":"hello"}`, string(samples[0].Content))
}

func TestAppendSamplesMissingDataset(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	_, _, err := f.datasets.AppendSamples(ctx, missing, docs(`{}`))
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.datasets.AppendSamples(ctx, missing, nil)
	require.ErrorIs(t, err, ErrNotFound)

	require.Equal(t, int64(0), f.countSamples(t, missing))
}

func TestAppendSamplesRejectsInvalidBatchAtomically(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	ds, err := f.datasets.CreateDataset(ctx, CreateDatasetInput{Name: "delta"})
	require.NoError(t, err)

	_, _, err = f.datasets.AppendSamples(ctx, ds.ID, docs(`{"ok":true}`, `not json`))
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, int64(0), f.countSamples(t, ds.ID))
}

func TestConcurrentAppendsCompose(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	ds, err := f.datasets.CreateDataset(ctx, CreateDatasetInput{Name: "concurrent"})
	require.NoError(t, err)

	const workers = 8
	const perWorker = 5
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			batch := make([]string, perWorker)
			for j := range batch {
				batch[j] = `{"n":1}`
			}
			_, _, err := f.datasets.AppendSamples(ctx, ds.ID, docs(batch...))
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := f.datasets.GetDataset(ctx, ds.ID)
	require.NoError(t, err)
	require.Equal(t, int64(workers*perWorker), got.SamplesCount)
	require.Equal(t, got.SamplesCount, f.countSamples(t, ds.ID))
	require.Equal(t, int64(workers*perWorker*len(`{"n":1}`)), got.SizeBytes)
}

func TestTwoConcurrentSingleAppends(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	ds, err := f.datasets.CreateDataset(ctx, CreateDatasetInput{Name: "pair"})
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, _, err := f.datasets.AppendSamples(ctx, ds.ID, docs(`{"x":1}`))
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := f.datasets.GetDataset(ctx, ds.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.SamplesCount)
	require.Equal(t, int64(2*len(`{"x":1}`)), got.SizeBytes)
	require.Equal(t, int64(2), f.countSamples(t, ds.ID))
}

func TestDeleteDataset(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	ds, _, err := f.datasets.CreateDatasetWithSamples(ctx, CreateDatasetInput{
		Name:    "to-delete",
		Samples: docs(`1`, `2`, `3`),
	})
	require.NoError(t, err)
	ftID := uuid.New()
	_, err = f.finetunes.LinkDatasetToFinetune(ctx, ftID, ds.ID)
	require.NoError(t, err)

	require.NoError(t, f.datasets.DeleteDataset(ctx, ds.ID))

	_, err = f.datasets.GetDataset(ctx, ds.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, int64(0), f.countSamples(t, ds.ID))

	links, err := f.finetuneRepo.CountLinks(dbctx.Context{Ctx: ctx}, ftID, ds.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), links)

	require.ErrorIs(t, f.datasets.DeleteDataset(ctx, ds.ID), ErrNotFound)
}

func TestListDatasetsNewestFirst(t *testing.T) {
	f := newPrivateServiceFixture(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, name := range []string{"one", "two", "three"} {
		ds, err := f.datasets.CreateDataset(ctx, CreateDatasetInput{Name: name})
		require.NoError(t, err)
		ids = append(ids, ds.ID)
	}

	rows, err := f.datasets.ListDatasets(ctx, repos.ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i-1].CreatedAt.Before(rows[i].CreatedAt))
	}

	page, err := f.datasets.ListDatasets(ctx, repos.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, rows[1].ID, page[0].ID)

	_, err = f.datasets.ListDatasets(ctx, repos.ListOptions{Limit: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.ElementsMatch(t, ids, []uuid.UUID{rows[0].ID, rows[1].ID, rows[2].ID})
}
