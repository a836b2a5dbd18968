package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	FDC       FDCConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FDCConfig holds FoodData Central API configuration.
type FDCConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds the per-tier cache lifetimes.
type CacheConfig struct {
	ResultTTL  time.Duration `mapstructure:"result_ttl"`
	SearchTTL  time.Duration `mapstructure:"search_ttl"`
	DetailsTTL time.Duration `mapstructure:"details_ttl"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	UpstreamPerHour int `mapstructure:"upstream_per_hour"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mealmetric/")

	// Environment variable settings
	v.SetEnvPrefix("MEALMETRIC")
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

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// FoodData Central defaults. The api_key entry registers the key so
	// AutomaticEnv picks up MEALMETRIC_FDC_API_KEY; there is no usable
	// default value.
	v.SetDefault("fdc.api_key", "")
	v.SetDefault("fdc.base_url", "https://api.nal.usda.gov/fdc")

	// Cache tier defaults
	v.SetDefault("cache.result_ttl", "1h")
	v.SetDefault("cache.search_ttl", "15m")
	v.SetDefault("cache.details_ttl", "24h")

	// Rate limit defaults (USDA grants 1000 requests/hour per key)
	v.SetDefault("ratelimit.upstream_per_hour", 1000)
}

// validate validates the configuration.
func validate(config *Config) error {
	if config.FDC.APIKey == "" {
		return fmt.Errorf("FoodData Central API key is required (set MEALMETRIC_FDC_API_KEY)")
	}

	if config.Cache.ResultTTL <= 0 || config.Cache.SearchTTL <= 0 || config.Cache.DetailsTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive durations")
	}

	if config.RateLimit.UpstreamPerHour <= 0 {
		return fmt.Errorf("upstream rate limit must be positive, got: %d", config.RateLimit.UpstreamPerHour)
	}

	return nil
}
