package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lipish/corexia/internal/platform/logger"
)

const revokedKeyPrefix = "corexia:revoked:"

// RevocationStore remembers token ids that were logged out before they expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Enabled() bool
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type redisRevocationStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewRevocationStore connects to Redis. An empty address yields a store that
// never revokes anything.
func NewRevocationStore(ctx context.Context, log *logger.Logger, cfg RedisConfig) (RevocationStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		log.Warn("REDIS_ADDR not set; token revocation disabled")
		return NewDisabledRevocationStore(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisRevocationStore{
		log: log.With("service", "RedisRevocationStore"),
		rdb: rdb,
	}, nil
}

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

func (s *redisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil
	}
	// an already expired token needs no entry
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked: %w", err)
	}
	s.log.Debug("token revoked", "token_id", tokenID, "ttl", ttl.String())
	return nil
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return false, nil
	}
	err := s.rdb.Get(ctx, revokedKey(tokenID)).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get revoked: %w", err)
	}
	return true, nil
}

func (s *redisRevocationStore) Enabled() bool { return true }

func (s *redisRevocationStore) Close() error { return s.rdb.Close() }

type disabledRevocationStore struct{}

func NewDisabledRevocationStore() RevocationStore { return disabledRevocationStore{} }

func (disabledRevocationStore) Revoke(context.Context, string, time.Duration) error { return nil }
func (disabledRevocationStore) IsRevoked(context.Context, string) (bool, error)   { return false, nil }
func (disabledRevocationStore) Enabled() bool                                      { return false }
func (disabledRevocationStore) Close() error                                       { return nil }
