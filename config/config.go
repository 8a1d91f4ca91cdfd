package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	OpenRecipes OpenRecipesConfig
	Cache       CacheConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenRecipesConfig holds the ingredient search API configuration
type OpenRecipesConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Token        string        `mapstructure:"token"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    int           `mapstructure:"rate_limit"` // requests per minute
}

// CacheConfig holds token cache configuration
type CacheConfig struct {
	Type     string `mapstructure:"type"` // "memory" or "redis"
	RedisURL string `mapstructure:"redis_url"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load loads configuration from environment variables and config files.
// An explicit path overrides the default search locations.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ingredient-panel/")
	}

	v.SetEnvPrefix("INGREDIENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
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
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("openrecipes.base_url", "http://localhost:8000")
	v.SetDefault("openrecipes.timeout", "30s")
	v.SetDefault("openrecipes.rate_limit", 60)

	v.SetDefault("cache.type", "memory")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// bindEnv makes keys without a default visible to AutomaticEnv during Unmarshal
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"openrecipes.token",
		"openrecipes.client_id",
		"openrecipes.client_secret",
		"cache.redis_url",
	} {
		_ = v.BindEnv(key)
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenRecipes.BaseURL == "" {
		return fmt.Errorf("open recipes base URL is required (set INGREDIENTS_OPENRECIPES_BASE_URL)")
	}

	if config.OpenRecipes.Token == "" && (config.OpenRecipes.ClientID == "" || config.OpenRecipes.ClientSecret == "") {
		return fmt.Errorf("either INGREDIENTS_OPENRECIPES_TOKEN or both client id and client secret are required")
	}

	if config.OpenRecipes.RateLimit <= 0 {
		return fmt.Errorf("open recipes rate limit must be positive, got: %d", config.OpenRecipes.RateLimit)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	return nil
}
