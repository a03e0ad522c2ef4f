package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"aivenger/internal/adapter/repo"
	"aivenger/internal/avatar"
	"aivenger/internal/http/handlers"
	"aivenger/internal/http/httpapi"
	"aivenger/internal/infra"
	"aivenger/internal/infra/geoip"
	"aivenger/internal/metrics"
	"aivenger/internal/middleware"
	"aivenger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize blob store")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var countryLookup middleware.CountryLookup
	if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	m := metrics.New()
	analytics := repo.NewAnalyticsRepository(dbpool)

	service := avatar.NewService(avatar.ServiceOptions{
		Users:       repo.NewUserRepository(dbpool),
		Generations: repo.NewGenerationRepository(dbpool),
		Analytics:   analytics,
		Store:       store,
		Provider: avatar.NewOpenRouterClient(avatar.OpenRouterOptions{
			BaseURL:  cfg.OpenRouterBaseURL,
			APIKey:   cfg.OpenRouterAPIKey,
			Model:    cfg.OpenRouterModel,
			Referer:  cfg.AppURL,
			AppTitle: "AIVenger",
			Timeout:  cfg.ProviderTimeout,
		}),
		Prompts:         avatar.NewPromptSynthesizer(avatar.DefaultCatalogs(), rand.New(rand.NewSource(time.Now().UnixNano()))),
		Metrics:         m,
		Logger:          logger,
		ProviderTimeout: cfg.ProviderTimeout,
	})

	app := &handlers.App{
		Avatars:   service,
		Analytics: analytics,
		Logger:    logger,
		Config:    cfg,
		Metrics:   m,
	}

	router := httpapi.NewRouter(app, countryLookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newBlobStore(ctx context.Context, cfg *infra.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "s3" {
		store, err := storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
			BaseURL:   cfg.StorageBaseURL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
}
