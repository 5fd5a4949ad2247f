package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"showroom/internal/adapter/repo"
	"showroom/internal/infra"
)

const purgeInterval = time.Hour

// The reaper permanently removes trashed products once their restore
// window has passed.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("reaper: db connection failed")
	}
	defer dbpool.Close()

	products := repo.NewProductRepository(dbpool)

	logger.Info().Dur("trash_ttl", cfg.TrashTTL).Msg("reaper: started")
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		horizon := time.Now().Add(-cfg.TrashTTL)
		count, err := products.PurgeExpired(ctx, horizon)
		if err != nil {
			logger.Error().Err(err).Msg("reaper: purge failed")
		} else if count > 0 {
			logger.Info().Int("count", count).Msg("reaper: purged expired trash")
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("reaper: stopped")
			return
		case <-ticker.C:
		}
	}
}
