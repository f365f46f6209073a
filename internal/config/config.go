package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/turnDeep/chartnote/internal/core"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Market    MarketConfig    `mapstructure:"market"`
	Placement PlacementConfig `mapstructure:"placement"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
	Sentiment SentimentConfig `mapstructure:"sentiment"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

type StorageConfig struct {
	Hot  HotStorageConfig  `mapstructure:"hot"`
	Cold ColdStorageConfig `mapstructure:"cold"`
}

type HotStorageConfig struct {
	DSN           string `mapstructure:"dsn"`  // empty runs on the in-memory store
	RetentionDays int    `mapstructure:"retention_days"`
	MaxComments   int    `mapstructure:"max_comments"`
}

type ColdStorageConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type MarketConfig struct {
	Symbol         string        `mapstructure:"symbol"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

type PlacementConfig struct {
	PriceThreshold float64 `mapstructure:"price_threshold"`
	Margin         float64 `mapstructure:"margin"`
	ScreenMargin   float64 `mapstructure:"screen_margin"`
}

type RealtimeConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type SentimentConfig struct {
	Provider string       `mapstructure:"provider"` // "keyword", "claude" or "openai"
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Hot: HotStorageConfig{
				RetentionDays: 30,
				MaxComments:   10000,
			},
			Cold: ColdStorageConfig{
				Type: "localfs",
				Path: "data/archive",
			},
		},
		Market: MarketConfig{
			Symbol:         "NQ=F",
			CacheTTL:       5 * time.Minute,
			UpdateInterval: 10 * time.Second,
		},
		Placement: PlacementConfig{
			PriceThreshold: 30,
			Margin:         20,
			ScreenMargin:   10,
		},
		Realtime: RealtimeConfig{
			MaxRetries: 5,
			RetryDelay: 3 * time.Second,
		},
		Sentiment: SentimentConfig{
			Provider: "keyword",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Placement.PriceThreshold <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("price_threshold must be positive, got %f", c.Placement.PriceThreshold))
	}
	if c.Placement.Margin < 0 || c.Placement.ScreenMargin < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("placement margins cannot be negative"))
	}

	if c.Storage.Hot.RetentionDays < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("retention_days cannot be negative, got %d", c.Storage.Hot.RetentionDays))
	}
	if c.Storage.Cold.Enabled {
		switch c.Storage.Cold.Type {
		case "localfs":
			if c.Storage.Cold.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("cold storage path required for localfs"))
			}
		case "s3":
			if c.Storage.Cold.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required when cold storage type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown cold storage type: %s", c.Storage.Cold.Type))
		}
	}

	switch c.Sentiment.Provider {
	case "", "keyword":
	case "claude":
		if c.Sentiment.Claude.APIKey == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("claude api_key required when provider is claude"))
		}
	case "openai":
		if c.Sentiment.OpenAI.APIKey == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("openai api_key required when provider is openai"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown sentiment provider: %s", c.Sentiment.Provider))
	}

	return nil
}
