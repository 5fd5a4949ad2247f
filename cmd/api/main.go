package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"showroom/internal/adapter/repo"
	"showroom/internal/http/handlers"
	httpapi "showroom/internal/http/httpapi"
	"showroom/internal/infra"
	"showroom/internal/infra/geoip"
	"showroom/internal/middleware"
	"showroom/internal/pipeline"
	"showroom/internal/providers/elevenlabs"
	"showroom/internal/providers/kling"
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

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	if cfg.KlingAccessKey == "" || cfg.KlingSecretKey == "" {
		logger.Warn().Msg("kling credentials missing; media generation will fail on the first remote call")
	}
	klingClient := kling.NewClient(kling.Options{
		AccessKey: cfg.KlingAccessKey,
		SecretKey: cfg.KlingSecretKey,
		BaseURL:   cfg.KlingBaseURL,
		Logger:    &logger,
	})
	ttsClient := elevenlabs.NewClient(elevenlabs.Options{
		APIKey:  cfg.ElevenLabsAPIKey,
		BaseURL: cfg.ElevenLabsBaseURL,
		Logger:  &logger,
	})

	products := repo.NewProductRepository(dbpool)
	if err := products.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}
	orchestrator := pipeline.New(pipeline.Options{
		Repo:   products,
		TryOn:  klingClient,
		Video:  klingClient,
		TTS:    ttsClient,
		Logger: logger,
	})

	app := handlers.NewApp(products, orchestrator, logger, cfg.DefaultNarrationLang)

	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}
	router := httpapi.NewRouter(app, lookup)
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
