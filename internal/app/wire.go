package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/openrecipes/ingredient-panel/config"
	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/openrecipes/ingredient-panel/internal/infrastructure/cache"
	"github.com/openrecipes/ingredient-panel/internal/infrastructure/openrecipes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger
func SetupLogger(cfg config.LogConfig, out io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// TokenCache is a domain.TokenCache that holds resources to release
type TokenCache interface {
	domain.TokenCache
	io.Closer
}

// cachePingTimeout bounds the startup reachability check of a shared cache
const cachePingTimeout = 3 * time.Second

// NewTokenCache builds the token cache selected by configuration. A Redis
// cache must answer a ping before it is returned.
func NewTokenCache(ctx context.Context, cfg config.CacheConfig) (TokenCache, error) {
	switch cfg.Type {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		defer cancel()
		if err := c.Ping(pingCtx); err != nil {
			c.Close()
			return nil, fmt.Errorf("redis unreachable: %w", err)
		}
		log.Info().Str("component", "token_cache").Msg("Connected to Redis")
		return c, nil
	case "memory", "":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// NewSearchClient builds the authenticated Open Recipes client
func NewSearchClient(cfg *config.Config, tokens domain.TokenCache) *openrecipes.Client {
	source := openrecipes.NewTokenSource(openrecipes.Credentials{
		Token:        cfg.OpenRecipes.Token,
		ClientID:     cfg.OpenRecipes.ClientID,
		ClientSecret: cfg.OpenRecipes.ClientSecret,
	}, tokens)

	client := openrecipes.NewClient(openrecipes.ClientOpts{
		BaseURL:     cfg.OpenRecipes.BaseURL,
		Timeout:     cfg.OpenRecipes.Timeout,
		RatePerMin:  cfg.OpenRecipes.RateLimit,
		TokenSource: source,
	})

	if cfg.Server.Environment == "development" && cfg.Log.Level == "debug" {
		client.SetDebug(true)
	}

	return client
}
