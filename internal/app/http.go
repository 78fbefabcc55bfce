package app

import (
	"github.com/lipish/corexia/internal/http"
	httpH "github.com/lipish/corexia/internal/http/handlers"
	httpMW "github.com/lipish/corexia/internal/http/middleware"
	"github.com/lipish/corexia/internal/observability"
	"github.com/lipish/corexia/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Dataset  *httpH.DatasetHandler
	Finetune *httpH.FinetuneHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(clients.Store),
		Auth:     httpH.NewAuthHandler(log, services.Auth),
		Dataset:  httpH.NewDatasetHandler(log, services.Dataset),
		Finetune: httpH.NewFinetuneHandler(log, services.Finetune),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(log, http.ServerConfig{
		Addr:            cfg.ServerAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		DatasetHandler:  handlers.Dataset,
		FinetuneHandler: handlers.Finetune,
	})
}
