package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Scraper   ScraperConfig
	Embedding EmbeddingConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	UploadDir      string   `mapstructure:"upload_dir"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL      string        `mapstructure:"redis_url"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ScraperConfig controls the storefront fan-out
type ScraperConfig struct {
	Sources         []string      `mapstructure:"sources"` // empty = all registered storefronts
	UserAgent       string        `mapstructure:"user_agent"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	SourceTimeout   time.Duration `mapstructure:"source_timeout"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	MinPerSource    int           `mapstructure:"min_per_source"`
	Render          bool          `mapstructure:"render"` // headless browser instead of plain HTTP
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// EmbeddingConfig selects the text encoder
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"` // "hash" or "ollama"
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	Token     string `mapstructure:"token"`
	Dimension int    `mapstructure:"dimension"`
}

// StorageConfig selects the wardrobe/outfit store
type StorageConfig struct {
	Type        string `mapstructure:"type"` // "memory" or "postgres"
	DatabaseURL string `mapstructure:"database_url"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`     // API requests per minute per client IP
	PerSource float64 `mapstructure:"per_source"` // storefront requests per second per host
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/outfitplanner/")

	// Environment variable settings
	v.SetEnvPrefix("OUTFITPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:*"})
	v.SetDefault("server.upload_dir", "uploads")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.sweep_interval", "10m")

	// Scraper defaults
	v.SetDefault("scraper.sources", []string{})
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36")
	v.SetDefault("scraper.request_timeout", "10s")
	v.SetDefault("scraper.source_timeout", "20s")
	v.SetDefault("scraper.batch_timeout", "45s")
	v.SetDefault("scraper.max_attempts", 3)
	v.SetDefault("scraper.min_per_source", 6)
	v.SetDefault("scraper.render", false)
	v.SetDefault("scraper.breaker_failures", 5)
	v.SetDefault("scraper.breaker_timeout", "2m")

	// Embedding defaults
	v.SetDefault("embedding.provider", "hash")
	v.SetDefault("embedding.base_url", "http://localhost:11434")
	v.SetDefault("embedding.model", "all-minilm")
	v.SetDefault("embedding.token", "")
	v.SetDefault("embedding.dimension", 384)

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.database_url", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.per_source", 2.0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Storage.Type != "memory" && config.Storage.Type != "postgres" {
		return fmt.Errorf("storage type must be 'memory' or 'postgres', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "postgres" && config.Storage.DatabaseURL == "" {
		return fmt.Errorf("database URL is required when storage type is 'postgres' (set OUTFITPLANNER_STORAGE_DATABASE_URL)")
	}

	if config.Embedding.Provider != "hash" && config.Embedding.Provider != "ollama" {
		return fmt.Errorf("embedding provider must be 'hash' or 'ollama', got: %s", config.Embedding.Provider)
	}

	if config.Embedding.Provider == "hash" && config.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got: %d", config.Embedding.Dimension)
	}

	if config.Scraper.MaxAttempts < 1 {
		return fmt.Errorf("scraper max attempts must be at least 1, got: %d", config.Scraper.MaxAttempts)
	}

	return nil
}

// LoadEnvFile seeds the process environment from a local .env file.
// Existing variables are never overridden; a missing file is not an error.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}
