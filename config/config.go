package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Embedding EmbeddingConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Search    SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmbeddingConfig holds embedding API configuration
type EmbeddingConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// CatalogConfig holds catalog source configuration
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds search result cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SearchConfig holds retrieval configuration
type SearchConfig struct {
	DefaultLimit       int  `mapstructure:"default_limit"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dermalens/")

	// Environment variable settings
	v.SetEnvPrefix("DERMALENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Embedding defaults. The empty api_key default registers the key so the
	// environment variable is visible to Unmarshal.
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")

	// Catalog defaults
	v.SetDefault("catalog.path", "./data/sephora_products.csv")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Search defaults
	v.SetDefault("search.default_limit", 3)
	v.SetDefault("search.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key is required (set DERMALENS_EMBEDDING_API_KEY)")
	}

	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required (set DERMALENS_CATALOG_PATH)")
	}

	if config.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search default limit must be positive, got: %d", config.Search.DefaultLimit)
	}

	return nil
}
