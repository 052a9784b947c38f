// Package main wires together the linkdex service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tmacha/linkdex/internal/api"
	"github.com/tmacha/linkdex/internal/clock/system"
	"github.com/tmacha/linkdex/internal/config"
	"github.com/tmacha/linkdex/internal/enrich"
	"github.com/tmacha/linkdex/internal/extract"
	"github.com/tmacha/linkdex/internal/id/uuid"
	"github.com/tmacha/linkdex/internal/link"
	"github.com/tmacha/linkdex/internal/logging"
	"github.com/tmacha/linkdex/internal/metrics"
	"github.com/tmacha/linkdex/internal/pipeline"
	memorystore "github.com/tmacha/linkdex/internal/storage/memory"
	pgstore "github.com/tmacha/linkdex/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer closeStore()

	static := extract.NewStaticFetcher(extract.StaticConfig{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second,
	})
	var headless extract.HeadlessTier
	if cfg.Headless.Enabled {
		h, err := extract.NewHeadlessExtractor(extract.HeadlessConfig{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Scraper.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
			SettleDelay:       time.Duration(cfg.Headless.SettleDelayMs) * time.Millisecond,
		})
		if err != nil {
			logger.Warn("headless extractor init failed", zap.Error(err))
		} else {
			headless = h
			defer h.Close()
		}
	}
	extractor := extract.New(static, headless, extract.NewHeuristic(), logger.Named("extract"))

	var completion enrich.CompletionClient
	if cfg.AI.Enabled {
		completion = enrich.NewClient(enrich.ClientConfig{
			Endpoint:    cfg.AI.Endpoint,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		})
	}
	engine := enrich.NewEngine(completion, logger.Named("enrich"))

	coordinator := pipeline.New(store, extractor, engine, uuid.New(), logger.Named("pipeline"))
	apiServer := api.NewServer(coordinator, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildStore(ctx context.Context, cfg config.Config) (link.Store, func(), error) {
	switch cfg.DB.Provider {
	case "postgres":
		store, err := pgstore.NewLinkStore(ctx, pgstore.Config{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	case "memory":
		return memorystore.NewLinkStore(system.New()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown db provider: %s", cfg.DB.Provider)
	}
}
