package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	WarehouseURL string
	DatabaseURL  string
	RedisAddr    string
	CacheTTL     time.Duration
	Port         string
	HTTPTimeout  time.Duration
	LogLevel     slog.Level
	CORSOrigins  []string
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	ttl := 5 * time.Minute
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			ttl = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	origins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = []string{v}
	}
	return Config{
		WarehouseURL: os.Getenv("WAREHOUSE_URL"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CacheTTL:     ttl,
		Port:         envOr("PORT", "8080"),
		HTTPTimeout:  to,
		LogLevel:     lvl,
		CORSOrigins:  origins,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
