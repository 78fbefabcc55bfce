package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/lipish/corexia/internal/http/handlers"
	httpMW "github.com/lipish/corexia/internal/http/middleware"
	"github.com/lipish/corexia/internal/observability"
	"github.com/lipish/corexia/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	DatasetHandler  *httpH.DatasetHandler
	FinetuneHandler *httpH.FinetuneHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		r.POST("/auth/login", cfg.AuthHandler.Login)
	}

	protected := r.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// Datasets
		if cfg.DatasetHandler != nil {
			protected.GET("/datasets", cfg.DatasetHandler.ListDatasets)
			protected.POST("/datasets", cfg.DatasetHandler.CreateDataset)
			protected.GET("/datasets/:id", cfg.DatasetHandler.GetDataset)
			protected.DELETE("/datasets/:id", cfg.DatasetHandler.DeleteDataset)
			protected.POST("/datasets/:id/samples", cfg.DatasetHandler.AppendSamples)
			protected.GET("/datasets/:id/samples", cfg.DatasetHandler.ListSamples)
		}

		// Finetunes
		if cfg.FinetuneHandler != nil {
			protected.POST("/finetunes/:fid/datasets/:did", cfg.FinetuneHandler.LinkDataset)
			protected.GET("/finetunes/:fid/datasets", cfg.FinetuneHandler.ListDatasets)
		}
	}

	return r
}
