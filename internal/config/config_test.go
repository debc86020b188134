package config

import (
	"testing"
	"time"

	"spendsense/internal/core"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Errorf("Port=%s, want 8082", cfg.Port)
	}
	if cfg.SourceBackend != "memory" {
		t.Errorf("SourceBackend=%s, want memory", cfg.SourceBackend)
	}
	if cfg.Ruleset != RulesetDefault {
		t.Errorf("Ruleset=%s, want %s", cfg.Ruleset, RulesetDefault)
	}
	if cfg.LateNightMinCents != 1500 {
		t.Errorf("LateNightMinCents=%d, want 1500", cfg.LateNightMinCents)
	}
	if cfg.WeekendMinCents != 5000 {
		t.Errorf("WeekendMinCents=%d, want 5000", cfg.WeekendMinCents)
	}
	if cfg.HighValueMinCents != 10000 {
		t.Errorf("HighValueMinCents=%d, want 10000", cfg.HighValueMinCents)
	}
	if cfg.TrendCategory != string(core.Dining) {
		t.Errorf("TrendCategory=%s, want Dining", cfg.TrendCategory)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WEEKEND_MIN_AMOUNT", "75.50")
	t.Setenv("ANALYSIS_RULESET", RulesetThresholdOnly)
	t.Setenv("WORKER_ACCOUNTS", "acct-1, acct-2,,")
	t.Setenv("SWEEP_INTERVAL", "30m")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port=%s, want 9000", cfg.Port)
	}
	if cfg.WeekendMinCents != 7550 {
		t.Errorf("WeekendMinCents=%d, want 7550", cfg.WeekendMinCents)
	}
	if cfg.Ruleset != RulesetThresholdOnly {
		t.Errorf("Ruleset=%s", cfg.Ruleset)
	}
	if len(cfg.WorkerAccounts) != 2 || cfg.WorkerAccounts[0] != "acct-1" || cfg.WorkerAccounts[1] != "acct-2" {
		t.Errorf("WorkerAccounts=%v", cfg.WorkerAccounts)
	}
	if cfg.SweepInterval != 30*time.Minute {
		t.Errorf("SweepInterval=%v", cfg.SweepInterval)
	}
}

func TestAnalysisRules(t *testing.T) {
	cfg := Load()
	rules := cfg.AnalysisRules()
	if !rules.LateNightEnabled || rules.HighValueEnabled {
		t.Errorf("default ruleset wrong: %+v", rules)
	}

	cfg.Ruleset = RulesetThresholdOnly
	cfg.HighValueMinCents = 20000
	rules = cfg.AnalysisRules()
	if rules.LateNightEnabled || !rules.HighValueEnabled {
		t.Errorf("threshold-only ruleset wrong: %+v", rules)
	}
	if rules.HighValueMinAmount.Cents != 20000 {
		t.Errorf("HighValueMinAmount=%d, want 20000", rules.HighValueMinAmount.Cents)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		cfg.SQLiteDBPath = "" // avoid touching the filesystem in tests
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"unknown backend", func(c *Config) { c.SourceBackend = "carrier-pigeon" }},
		{"provider without URL", func(c *Config) { c.SourceBackend = "provider"; c.ProviderToken = "t" }},
		{"provider bad scheme", func(c *Config) {
			c.SourceBackend = "provider"
			c.ProviderBaseURL = "ftp://bank.example"
			c.ProviderToken = "t"
		}},
		{"provider without token", func(c *Config) {
			c.SourceBackend = "provider"
			c.ProviderBaseURL = "https://bank.example"
		}},
		{"bad AMQP scheme", func(c *Config) { c.AMQPURL = "http://localhost" }},
		{"AMQP without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }},
		{"missing taxonomy file", func(c *Config) { c.TaxonomyPath = "/does/not/exist.yaml" }},
		{"unknown ruleset", func(c *Config) { c.Ruleset = "strict" }},
		{"unknown trend category", func(c *Config) { c.TrendCategory = "Lottery" }},
		{"sweep interval too short", func(c *Config) { c.SweepInterval = time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
