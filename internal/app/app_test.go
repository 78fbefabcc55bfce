package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lipish/corexia/internal/platform/logger"
)

func TestMigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", path)

	require.NoError(t, Migrate(context.Background(), logger.Nop()))
	// idempotent
	require.NoError(t, Migrate(context.Background(), logger.Nop()))
}

func TestNewWiresSQLiteApp(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("METRICS_ENABLED", "false")

	a, err := New(context.Background(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NotNil(t, a.Server)
	require.NotNil(t, a.Services.Dataset)
	require.False(t, a.Clients.Revocations.Enabled())
	require.Nil(t, a.Metrics)
}
