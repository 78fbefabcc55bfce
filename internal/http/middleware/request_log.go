package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lipish/corexia/internal/platform/ctxutil"
	"github.com/lipish/corexia/internal/platform/logger"
)

// probe routes are logged at debug so they do not drown request traffic.
var probeRoutes = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// routeParams are copied into the request line when the matched route has them.
var routeParams = []struct{ param, field string }{
	{"id", "dataset_id"},
	{"did", "dataset_id"},
	{"fid", "finetune_id"},
}

// RequestLogger emits one line per request; the level follows the status class.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "RequestLogger")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		for _, p := range routeParams {
			if v := c.Param(p.param); v != "" {
				fields = append(fields, p.field, v)
			}
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			if td.TraceID != "" {
				fields = append(fields, "trace_id", td.TraceID)
			}
			if td.RequestID != "" {
				fields = append(fields, "request_id", td.RequestID)
			}
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.TokenID != "" {
			fields = append(fields, "token_id", rd.TokenID, "subject", rd.Email)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case probeRoutes[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
