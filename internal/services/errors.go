package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound reports a dataset (or other addressed row) that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument reports caller input that failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConstraintViolation reports a store integrity rule rejecting a write.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStoreUnavailable reports a connection or transaction failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
)

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func unauthorized(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// isTyped reports whether err already carries one of the service sentinels.
func isTyped(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrConstraintViolation) ||
		errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrUnauthorized)
}

// classifyStoreError maps a gorm / driver failure onto the service taxonomy.
// Errors that are already typed pass through untouched.
func classifyStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTyped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone), errors.Is(err, sql.ErrTxDone):
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := strings.TrimSpace(pgErr.Code)
		switch {
		case strings.HasPrefix(code, "23"):
			return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
		case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "57P"), code == "53300":
			return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
		}
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key constraint"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "check constraint"):
		return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "bad connection"),
		strings.Contains(msg, "database is closed"):
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
