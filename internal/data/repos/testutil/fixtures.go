package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/lipish/corexia/internal/domain"
)

func SeedDataset(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, createdAt time.Time) *types.Dataset {
	tb.Helper()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	ds := &types.Dataset{
		ID:        uuid.New(),
		Name:      name,
		Tags:      datatypes.JSONSlice[string]{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(ds).Error; err != nil {
		tb.Fatalf("seed dataset: %v", err)
	}
	return ds
}

func SeedFinetune(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Finetune {
	tb.Helper()
	ft := &types.Finetune{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(ft).Error; err != nil {
		tb.Fatalf("seed finetune: %v", err)
	}
	return ft
}

func PtrString(v string) *string { return &v }
