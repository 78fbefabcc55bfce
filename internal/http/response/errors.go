package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lipish/corexia/internal/platform/apierr"
)

// RespondAPIError writes err through its apierr mapping. Server-side failures
// get a generic message so store internals do not leak to callers.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", errors.New("unknown error"))
	}
	if err != nil {
		_ = c.Error(err)
	}
	if ae.Status >= http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, errors.New(http.StatusText(ae.Status)))
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}
