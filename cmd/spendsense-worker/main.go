package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendsense/internal/amqp"
	"spendsense/internal/analysis"
	"spendsense/internal/config"
	applog "spendsense/internal/log"
	"spendsense/internal/services"
	"spendsense/internal/source/factory"
	"spendsense/internal/storage"
	"spendsense/internal/taxonomy"
	"spendsense/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting spendsense-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	tax, err := loadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		logger.Error("Failed to load taxonomy", applog.FieldError, err, "path", cfg.TaxonomyPath)
		os.Exit(1)
	}

	engine, err := analysis.NewEngine(tax, cfg.AnalysisRules(), nil)
	if err != nil {
		logger.Error("Failed to build analysis engine", applog.FieldError, err)
		os.Exit(1)
	}

	src, err := factory.New(logger).Create(factory.Config{
		Backend:         cfg.SourceBackend,
		SeedPath:        cfg.SeedPath,
		ProviderBaseURL: cfg.ProviderBaseURL,
		ProviderToken:   cfg.ProviderToken,
	})
	if err != nil {
		logger.Error("Failed to initialize transaction source", applog.FieldError, err)
		os.Exit(1)
	}
	if src.Cleanup != nil {
		defer src.Cleanup()
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize report archive", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - worker runs on the periodic sweep only")
	}

	service := services.NewAnalysisService(engine, src.Source, repo, amqpClient)
	analysisWorker := worker.NewAnalysisWorker(service, cfg.WorkerAccounts, cfg.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeAnalysisRequests(ctx, func(msg *amqp.AnalysisRequestedMessage) error {
				return analysisWorker.HandleRequest(ctx, msg)
			})
		})
	}

	g.Go(func() error {
		return analysisWorker.RunSweeper(ctx)
	})

	logger.Info("Worker running",
		"accounts", len(cfg.WorkerAccounts),
		"sweep_interval", cfg.SweepInterval,
		"consuming", amqpClient != nil)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.LoadFile(path)
}
