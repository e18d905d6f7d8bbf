package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/backfill"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/config"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/database"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/logger"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
)

func main() {
	once := flag.Bool("once", false, "run a single batch and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "jobboardx-backfill")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer database.Close(db)

	tenantsRepo := repository.NewPostgresTenantsRepository(db)
	jobsRepo := repository.NewPostgresJobsRepository(db)
	employersRepo := repository.NewPostgresEmployersRepository(db)

	assets := clients.NewAssetStore(cfg.Collaborators.AssetStoreURL, log)
	feed := clients.NewScraperFeed(cfg.Collaborators.ScraperFeedURL, log)
	broadcaster := clients.NewBroadcaster(cfg.Collaborators.BroadcasterURL, log)

	reconcileService := service.NewReconcileService(jobsRepo, employersRepo, assets, cfg.Backfill.ScraperOrigin, log)
	worker := backfill.NewWorker(tenantsRepo, jobsRepo, reconcileService, feed, broadcaster, log)

	if *once {
		if _, err := worker.Run(context.Background()); err != nil {
			log.Fatal("Backfill run failed", zap.Error(err))
		}
		return
	}

	scheduler := backfill.NewScheduler(worker, cfg.Backfill.IntervalHours, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	scheduler.Stop()
}
