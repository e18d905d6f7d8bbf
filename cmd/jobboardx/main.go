package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/config"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/database"
	httpapi "github.com/TerrestrialLabs/jobboardx-sub000/internal/http"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/logger"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/store"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "jobboardx")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)

	tenantsRepo := repository.NewPostgresTenantsRepository(db)
	usersRepo := repository.NewPostgresUsersRepository(db)
	jobsRepo := repository.NewPostgresJobsRepository(db)
	employersRepo := repository.NewPostgresEmployersRepository(db)

	tokens := token.NewService([]byte(cfg.Auth.AccessSecret), []byte(cfg.Auth.RefreshSecret), usersRepo)

	assets := clients.NewAssetStore(cfg.Collaborators.AssetStoreURL, log)
	notifier := clients.NewNotifier(cfg.Collaborators.NotifierURL, log)
	payments := clients.NewPaymentVerifier(cfg.Collaborators.PaymentAPIURL, cfg.Collaborators.PaymentAPIKey, log)

	feedService := service.NewFeedService(jobsRepo, employersRepo, log)
	jobService := service.NewJobService(jobsRepo, usersRepo, payments, notifier, log)
	accountService := service.NewAccountService(usersRepo, tokens, notifier, log)
	tenantService := service.NewTenantService(tenantsRepo, log)
	reconcileService := service.NewReconcileService(jobsRepo, employersRepo, assets, cfg.Backfill.ScraperOrigin, log)

	mw := httpapi.NewMiddleware(tenantsRepo, kv, tokens, log)
	secureCookies := cfg.Env != "development"

	router := httpapi.NewRouter(log)
	router.RegisterRoutes(
		mw,
		httpapi.NewJobHandler(feedService, jobService, usersRepo, log),
		httpapi.NewAuthHandler(accountService, tokens, secureCookies, log),
		httpapi.NewBackfillHandler(reconcileService, cfg.Backfill.SharedSecret, log),
		httpapi.NewAdminHandler(tenantService, feedService, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	_ = database.Close(db)
}
