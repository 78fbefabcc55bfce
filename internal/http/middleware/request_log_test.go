package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lipish/corexia/internal/platform/logger"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRequestLoggerLevelsAndFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := observedLogger()

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/datasets/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.POST("/finetunes/:fid/datasets/:did", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, target := range []struct{ method, path string }{
		{http.MethodGet, "/healthz"},
		{http.MethodGet, "/datasets/d-1"},
		{http.MethodPost, "/finetunes/f-1/datasets/d-2"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(target.method, target.path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("want 3 log lines got=%d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Fatalf("probe should log at debug, got=%v", entries[0].Level)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("4xx should log at warn, got=%v", entries[1].Level)
	}
	if got := entries[1].ContextMap()["dataset_id"]; got != "d-1" {
		t.Fatalf("dataset_id: got=%v", got)
	}
	if entries[2].Level != zapcore.ErrorLevel {
		t.Fatalf("5xx should log at error, got=%v", entries[2].Level)
	}
	fields := entries[2].ContextMap()
	if fields["finetune_id"] != "f-1" || fields["dataset_id"] != "d-2" {
		t.Fatalf("link route fields: %v", fields)
	}
	if fields["route"] != "/finetunes/:fid/datasets/:did" {
		t.Fatalf("route: got=%v", fields["route"])
	}
}

func TestRequestLoggerNilLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got=%d", rec.Code)
	}
}
