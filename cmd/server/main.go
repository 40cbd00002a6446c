package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelcm/commerce-insights-go/internal/analytics"
	"github.com/angelcm/commerce-insights-go/internal/cache"
	"github.com/angelcm/commerce-insights-go/internal/config"
	"github.com/angelcm/commerce-insights-go/internal/httpx"
	"github.com/angelcm/commerce-insights-go/internal/ingest"
	"github.com/angelcm/commerce-insights-go/internal/kpi"
	"github.com/angelcm/commerce-insights-go/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var summaryCache *cache.SummaryCache
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		summaryCache = cache.New(rc, cfg.CacheTTL)
	}

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	rows := store.NewMemoryStore()
	fetcher := ingest.NewFetcher(cl, rows, summaryCache, logger, cfg)

	var settings *store.SettingsStore
	if cfg.DatabaseURL != "" {
		var err error
		settings, err = store.OpenSettingsStore(cfg.DatabaseURL)
		if err != nil {
			logger.Error("settings store unavailable", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer settings.Close()
	}

	conv := kpi.NewConverter(nil, logger)

	var reader analytics.SettingsReader
	if settings != nil {
		reader = settings
	}
	svc := analytics.NewService(rows, reader, summaryCache, conv, logger)

	r := httpx.NewRouter(logger, fetcher, svc, settings, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
