package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/noah-isme/network-actions-api/api/swagger"
	"github.com/noah-isme/network-actions-api/internal/handler"
	"github.com/noah-isme/network-actions-api/internal/repository"
	"github.com/noah-isme/network-actions-api/internal/server"
	"github.com/noah-isme/network-actions-api/pkg/cache"
	"github.com/noah-isme/network-actions-api/pkg/config"
	"github.com/noah-isme/network-actions-api/pkg/database"
	"github.com/noah-isme/network-actions-api/pkg/logger"
)

// @title Network Actions API
// @version 1.0.0
// @description Action records, the action wizard, reports and exports for a network of centers
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open stores", "error", err)
	}
	defer closeStores()

	app, err := server.New(cfg, stores, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build application", "error", err)
	}

	app.Start(ctx)
	defer app.Stop()

	if err := app.ListenAndServe(ctx); err != nil {
		logr.Sugar().Errorw("server failed", "error", err)
	}
}

// openStores connects the configured backends. Memory stores are filled in by server.New.
func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (server.Stores, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	stores := server.Stores{Checks: map[string]handler.Pinger{}}

	reference, err := repository.LoadReferenceFile(cfg.Reference.File)
	if err != nil {
		return stores, closeAll, err
	}
	stores.Reference = reference

	if cfg.Actions.StoreDriver == config.StorePostgres {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return stores, closeAll, err
		}
		closers = append(closers, func() { _ = db.Close() })
		if err := database.EnsureSchema(ctx, db); err != nil {
			closeAll()
			return stores, func() {}, err
		}
		stores.Actions = repository.NewActionRepository(db)
		stores.Jobs = repository.NewReportRepository(db)
		stores.Checks["postgres"] = db.PingContext
		logr.Sugar().Infow("using postgres store", "host", cfg.Database.Host, "database", cfg.Database.Name)
	} else {
		seed, err := repository.LoadActionSeedFile(cfg.Actions.SeedFile)
		if err != nil {
			return stores, closeAll, err
		}
		stores.Actions = repository.NewMemoryActionRepository(seed...)
		logr.Sugar().Infow("using memory store", "seeded", len(seed))
	}

	if cfg.Wizard.DraftStore == config.StoreRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return stores, func() {}, err
		}
		cacheRepo := repository.NewCacheRepository(client, logr)
		closers = append(closers, func() { _ = cacheRepo.Close() })
		stores.Drafts = repository.NewRedisDraftRepository(cacheRepo, cfg.Wizard.DraftTTL)
		stores.Checks["redis"] = cacheRepo.Ping
		logr.Sugar().Infow("using redis draft store", "host", cfg.Redis.Host)
	}

	return stores, closeAll, nil
}
