package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/lipish/corexia/internal/platform/apierr"
	"github.com/lipish/corexia/internal/services"
)

// apiError maps a service failure onto its HTTP status and code.
func apiError(err error) *apierr.Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, services.ErrUnauthorized):
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrConstraintViolation):
		return apierr.New(http.StatusConflict, "constraint_violation", err)
	case errors.Is(err, services.ErrStoreUnavailable):
		return apierr.New(http.StatusServiceUnavailable, "store_unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "timeout", err)
	default:
		return apierr.From(err)
	}
}
