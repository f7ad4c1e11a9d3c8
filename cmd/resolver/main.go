package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/config"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/pkg/logger"
	"github.com/listing-resolver/internal/repository/cache"
	"github.com/listing-resolver/internal/repository/postgres"
	redisRepo "github.com/listing-resolver/internal/repository/redis"
	"github.com/listing-resolver/internal/usecase"
	"github.com/listing-resolver/internal/worker"
	"github.com/listing-resolver/internal/worker/resolution"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Resolver.Enabled {
		fmt.Println("Resolver is disabled in configuration. Set RESOLVER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Listing Resolver")
	log.Info("Configuration loaded",
		zap.String("run", cfg.Resolver.RunName),
		zap.Int("batch_size", cfg.Resolver.BatchSize),
		zap.Int("workers", cfg.Resolver.Workers),
		zap.Float64s("street_radii", cfg.Resolver.StreetRadii),
		zap.Bool("checkpoint", cfg.Resolver.Checkpoint),
		zap.Bool("publish_results", cfg.Resolver.PublishResults))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (only when checkpoints or publishing are on)
	var (
		checkpoints repository.CheckpointRepository
		publisher   repository.EventPublisher
	)
	if cfg.RedisEnabled() {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		if cfg.Resolver.Checkpoint {
			checkpoints = cache.NewCheckpointRepository(redisClient)
		}
		if cfg.Resolver.PublishResults {
			publisher = redisRepo.NewEventPublisher(redisClient.Client(), redisRepo.DefaultStreamMaxLen, log)
		}
	} else if cfg.Resolver.Checkpoint || cfg.Resolver.PublishResults {
		log.Warn("REDIS_HOST is not set, checkpoints and result publishing are disabled")
	}

	// 5. Initialize repositories
	geoRepo := postgres.NewGeoNodeRepository(db)
	streetRepo := postgres.NewStreetRepository(db)
	complexRepo := postgres.NewComplexRepository(db)
	listingRepo := postgres.NewListingRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Load reference snapshot
	loader := usecase.NewSnapshotLoader(geoRepo, streetRepo, complexRepo, logger.Component(log, "snapshot"))
	snap, err := loader.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load reference snapshot", zap.Error(err))
	}

	// 7. Initialize use cases
	resolutionUC := usecase.NewResolutionUseCase(usecase.ResolutionConfig{
		StreetRadii:          cfg.Resolver.StreetRadii,
		FuzzyLookupThreshold: cfg.Complex.FuzzyLookupThreshold,
		Workers:              cfg.Resolver.Workers,
	}, logger.Component(log, "resolution"))

	// 8. Initialize workers
	batchWorker := resolution.NewBatchWorker(
		listingRepo,
		checkpoints,
		publisher,
		resolutionUC,
		snap,
		resolution.Config{
			RunName:        cfg.Resolver.RunName,
			BatchSize:      cfg.Resolver.BatchSize,
			MaxRetries:     cfg.Resolver.MaxRetries,
			RetryBackoff:   cfg.Resolver.RetryBackoff,
			Checkpoint:     cfg.Resolver.Checkpoint,
			PublishResults: cfg.Resolver.PublishResults,
		},
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(batchWorker)

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 9. Wait for the run to finish or for a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-workerManager.Done():
		log.Info("Resolution run finished")
	case sig := <-sigChan:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))

		// текущий батч дописывается, контекст отменяется только по таймауту остановки
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
			cancel()
		}
	}

	if err := workerManager.Err(); err != nil {
		log.Error("Resolution run failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}

	log.Info("Resolver shutdown complete")
}
