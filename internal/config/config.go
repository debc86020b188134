package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"spendsense/internal/analysis"
	"spendsense/internal/core"
)

// Ruleset names selectable via ANALYSIS_RULESET.
const (
	RulesetDefault       = "default"
	RulesetThresholdOnly = "threshold-only"
)

type Config struct {
	// HTTP server
	Port string

	// Category tables; empty means the embedded default taxonomy.
	TaxonomyPath string

	// Report archive
	SQLiteDBPath string

	// AMQP; empty URL disables messaging entirely.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Transaction source
	SourceBackend   string
	ProviderBaseURL string
	ProviderToken   string
	SeedPath        string

	// Worker
	WorkerAccounts []string
	SweepInterval  time.Duration

	// Detector configuration
	Ruleset           string
	LateNightMinCents int64
	WeekendMinCents   int64
	HighValueMinCents int64
	TrendCategory     string
}

func Load() *Config {
	defaults := analysis.DefaultRules()

	cfg := &Config{
		Port: getEnv("PORT", "8082"),

		TaxonomyPath: getEnv("TAXONOMY_PATH", ""),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendsense.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendsense"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "analysis_requests"),

		SourceBackend:   getEnv("SOURCE_BACKEND", "memory"),
		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", ""),
		ProviderToken:   getEnv("PROVIDER_TOKEN", ""),
		SeedPath:        getEnv("SEED_PATH", "./data/seed_transactions.json"),

		WorkerAccounts: getEnvList("WORKER_ACCOUNTS", nil),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", 6*time.Hour),

		Ruleset:           getEnv("ANALYSIS_RULESET", RulesetDefault),
		LateNightMinCents: getEnvCents("LATE_NIGHT_MIN_AMOUNT", defaults.LateNightMinAmount.Cents),
		WeekendMinCents:   getEnvCents("WEEKEND_MIN_AMOUNT", defaults.WeekendMinAmount.Cents),
		HighValueMinCents: getEnvCents("HIGH_VALUE_MIN_AMOUNT", defaults.HighValueMinAmount.Cents),
		TrendCategory:     getEnv("TREND_CATEGORY", string(defaults.TrendCategory)),
	}

	return cfg
}

// AnalysisRules builds the detector configuration from the loaded values.
func (c *Config) AnalysisRules() analysis.Rules {
	var rules analysis.Rules
	if c.Ruleset == RulesetThresholdOnly {
		rules = analysis.ThresholdOnlyRules()
	} else {
		rules = analysis.DefaultRules()
	}
	rules.LateNightMinAmount = core.Money{Cents: c.LateNightMinCents}
	rules.WeekendMinAmount = core.Money{Cents: c.WeekendMinCents}
	rules.HighValueMinAmount = core.Money{Cents: c.HighValueMinCents}
	rules.TrendCategory = core.Category(c.TrendCategory)
	return rules
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.SourceBackend {
	case "memory":
		// Seed file is optional; the memory source starts empty without it.
	case "provider":
		if c.ProviderBaseURL == "" {
			errs = append(errs, "PROVIDER_BASE_URL is required when using the provider backend")
		} else if u, err := url.Parse(c.ProviderBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid provider base URL '%s'", c.ProviderBaseURL))
		}
		if c.ProviderToken == "" {
			errs = append(errs, "PROVIDER_TOKEN is required when using the provider backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid source backend '%s': must be one of [memory provider]", c.SourceBackend))
	}

	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.TaxonomyPath != "" {
		if _, err := os.Stat(c.TaxonomyPath); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("taxonomy file does not exist: %s", c.TaxonomyPath))
		}
	}

	if c.Ruleset != RulesetDefault && c.Ruleset != RulesetThresholdOnly {
		errs = append(errs, fmt.Sprintf("invalid ruleset '%s': must be one of [%s %s]", c.Ruleset, RulesetDefault, RulesetThresholdOnly))
	}

	if err := c.AnalysisRules().Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.SweepInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid sweep interval %v: must be at least 1 minute", c.SweepInterval))
	} else if c.SweepInterval > 7*24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sweep interval %v: must be at most 7 days", c.SweepInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvCents parses a decimal currency amount (e.g. "15" or "15.50").
func getEnvCents(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if cents, err := core.ParseSignedDecimalToCents(value); err == nil && cents > 0 {
			return cents
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated list, trimming blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
