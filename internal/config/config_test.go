package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  api_key: "test-key"

market:
  symbol: "^NDX"
  cache_ttl: 2m

placement:
  price_threshold: 45

storage:
  hot:
    dsn: "data/chartnote.db"
  cold:
    enabled: true
    type: localfs
    path: "/tmp/chartnote/archive"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Market.Symbol != "^NDX" {
		t.Errorf("expected ^NDX, got %s", cfg.Market.Symbol)
	}
	if cfg.Market.CacheTTL != 2*time.Minute {
		t.Errorf("expected 2m cache ttl, got %v", cfg.Market.CacheTTL)
	}
	if cfg.Placement.PriceThreshold != 45 {
		t.Errorf("expected price threshold 45, got %f", cfg.Placement.PriceThreshold)
	}
	if cfg.Storage.Cold.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Cold.Type)
	}

	// Unset keys keep their defaults.
	if cfg.Placement.Margin != 20 {
		t.Errorf("expected default margin 20, got %f", cfg.Placement.Margin)
	}
	if cfg.Realtime.MaxRetries != 5 {
		t.Errorf("expected default max_retries 5, got %d", cfg.Realtime.MaxRetries)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Market.Symbol != "NQ=F" {
		t.Errorf("expected default symbol NQ=F, got %s", cfg.Market.Symbol)
	}
	if cfg.Placement.PriceThreshold != 30 {
		t.Errorf("expected default price threshold 30, got %f", cfg.Placement.PriceThreshold)
	}
	if cfg.Sentiment.Provider != "keyword" {
		t.Errorf("expected default sentiment provider keyword, got %s", cfg.Sentiment.Provider)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Defaults() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero price threshold", func(c *Config) { c.Placement.PriceThreshold = 0 }, true},
		{"negative margin", func(c *Config) { c.Placement.Margin = -1 }, true},
		{"negative retention", func(c *Config) { c.Storage.Hot.RetentionDays = -1 }, true},
		{"cold s3 without bucket", func(c *Config) {
			c.Storage.Cold.Enabled = true
			c.Storage.Cold.Type = "s3"
		}, true},
		{"cold localfs without path", func(c *Config) {
			c.Storage.Cold.Enabled = true
			c.Storage.Cold.Path = ""
		}, true},
		{"unknown cold type", func(c *Config) {
			c.Storage.Cold.Enabled = true
			c.Storage.Cold.Type = "tape"
		}, true},
		{"claude without key", func(c *Config) { c.Sentiment.Provider = "claude" }, true},
		{"openai without key", func(c *Config) { c.Sentiment.Provider = "openai" }, true},
		{"unknown sentiment provider", func(c *Config) { c.Sentiment.Provider = "oracle" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
