package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/lipish/corexia/internal/data/db"
	"github.com/lipish/corexia/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// SQLiteDB opens a migrated, file-backed SQLite database private to the test.
func SQLiteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	svc, err := db.Open(Logger(tb), db.Config{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(tb.TempDir(), "corexia_test.db"),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	return svc.DB()
}

// DB returns the shared Postgres database when TEST_POSTGRES_DSN is set,
// otherwise a private SQLite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if os.Getenv("TEST_POSTGRES_DSN") == "" {
		return SQLiteDB(tb)
	}
	return PostgresDB(tb)
}

// PostgresDB skips the test unless TEST_POSTGRES_DSN is set.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			pgErr = errMissingDSN
			return
		}
		svc, err := db.Open(logger.Nop(), db.Config{Driver: db.DriverPostgres, DSN: dsn})
		if err != nil {
			pgErr = err
			return
		}
		if err := svc.AutoMigrateAll(); err != nil {
			pgErr = err
			return
		}
		pgDB = svc.DB()
	})
	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

// Tx opens a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
