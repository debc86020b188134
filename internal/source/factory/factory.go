// Package factory constructs transaction sources from configuration,
// keeping backend selection out of the entrypoints.
package factory

import (
	"fmt"

	"spendsense/internal/log"
	"spendsense/internal/source"
	"spendsense/internal/source/memory"
	"spendsense/internal/source/provider"
)

// Backend names accepted by Create.
const (
	MemoryBackend   = "memory"
	ProviderBackend = "provider"
)

// Config selects and parameterizes a transaction source backend.
type Config struct {
	Backend         string
	SeedPath        string
	ProviderBaseURL string
	ProviderToken   string
}

// Factory builds transaction sources from configuration.
type Factory struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentSource)}
}

// Create builds the configured source.
func (f *Factory) Create(cfg Config) (*source.Result, error) {
	switch cfg.Backend {
	case MemoryBackend:
		store, err := memory.NewFromFile(cfg.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("initialize memory source: %w", err)
		}
		f.logger.Info("initialized memory transaction source",
			"seed_path", cfg.SeedPath,
			"accounts", len(store.Accounts()))
		return &source.Result{Source: store}, nil
	case ProviderBackend:
		if cfg.ProviderBaseURL == "" || cfg.ProviderToken == "" {
			return nil, fmt.Errorf("provider source requires base URL and token")
		}
		cli := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderToken)
		f.logger.Info("initialized provider transaction source", "base_url", cfg.ProviderBaseURL)
		return &source.Result{Source: cli}, nil
	default:
		return nil, fmt.Errorf("unsupported source backend: %s", cfg.Backend)
	}
}
