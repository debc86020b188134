package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendsense/internal/amqp"
	"spendsense/internal/analysis"
	"spendsense/internal/config"
	apphttp "spendsense/internal/http"
	applog "spendsense/internal/log"
	"spendsense/internal/services"
	"spendsense/internal/source/factory"
	"spendsense/internal/storage"
	"spendsense/internal/taxonomy"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

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

	var repo *storage.SQLiteRepository
	if cfg.SQLiteDBPath != "" {
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize report archive", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Report archive initialized", "path", cfg.SQLiteDBPath)
	} else {
		logger.Info("Report archive disabled - no SQLITE_DB_PATH provided")
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	service := services.NewAnalysisService(engine, src.Source, repo, amqpClient)
	defer service.Close()

	srv := apphttp.NewServer(":"+cfg.Port, service, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting spendsense server",
		"port", cfg.Port,
		"source_backend", cfg.SourceBackend,
		"ruleset", cfg.Ruleset)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.LoadFile(path)
}
