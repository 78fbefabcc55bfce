package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lipish/corexia/internal/data/db"
	"github.com/lipish/corexia/internal/data/sessions"
	"github.com/lipish/corexia/internal/platform/envutil"
	"github.com/lipish/corexia/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	ServerAddr      string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	Redis sessions.RedisConfig

	MetricsEnabled bool
	ServiceName    string
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	driver := strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres, log))
	cfg := Config{
		ServerAddr:      envutil.String("SERVER_ADDR", "0.0.0.0:8080", log),
		CORSOrigins:     envutil.List("CORS_ORIGIN", []string{"http://localhost:3000"}),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second, log),
		DB: db.Config{
			Driver:          driver,
			DSN:             databaseDSN(driver, log),
			MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", 10, log),
			ConnMaxLifetime: envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute, log),
			SlowThreshold:   envutil.Duration("DB_SLOW_THRESHOLD", time.Second, log),
		},
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret, log),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour, log),
		Redis: sessions.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
		},
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		ServiceName:    envutil.String("OTEL_SERVICE_NAME", "corexia", log),
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the built-in development secret")
	}
	return cfg
}

// databaseDSN prefers DATABASE_URL, then the POSTGRES_* parts (or SQLITE_PATH
// for the sqlite driver).
func databaseDSN(driver string, log *logger.Logger) string {
	if url := envutil.String("DATABASE_URL", "", log); url != "" {
		return url
	}
	if driver == db.DriverSQLite {
		return envutil.String("SQLITE_PATH", "corexia.db", log)
	}
	return db.PostgresDSN(
		envutil.String("POSTGRES_HOST", "localhost", log),
		envutil.String("POSTGRES_PORT", "5432", log),
		envutil.String("POSTGRES_USER", "postgres", log),
		envutil.String("POSTGRES_PASSWORD", "", log),
		envutil.String("POSTGRES_NAME", "corexia", log),
		envutil.String("POSTGRES_SSLMODE", "disable", log),
	)
}
