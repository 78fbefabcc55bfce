package app

import (
	"context"
	"fmt"

	"github.com/lipish/corexia/internal/data/db"
	"github.com/lipish/corexia/internal/data/sessions"
	"github.com/lipish/corexia/internal/platform/logger"
)

type Clients struct {
	Store       *db.Service
	Revocations sessions.RevocationStore
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	store, err := db.Open(log, cfg.DB)
	if err != nil {
		return Clients{}, fmt.Errorf("init %s: %w", cfg.DB.Driver, err)
	}
	revocations, err := sessions.NewRevocationStore(ctx, log, cfg.Redis)
	if err != nil {
		_ = store.Close()
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{Store: store, Revocations: revocations}, nil
}

func (c Clients) Close() {
	if c.Revocations != nil {
		_ = c.Revocations.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}
