package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openrecipes/ingredient-panel/config"
	"github.com/openrecipes/ingredient-panel/internal/app"
	httpDelivery "github.com/openrecipes/ingredient-panel/internal/delivery/http"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Getenv("INGREDIENTS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := app.SetupLogger(cfg.Log, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Str("open_recipes", cfg.OpenRecipes.BaseURL).
		Msg("starting ingredient panel server")

	tokens, err := app.NewTokenCache(context.Background(), cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token cache")
	}
	defer tokens.Close()

	client := app.NewSearchClient(cfg, tokens)
	handler := httpDelivery.NewHandler(client)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown with error")
		return
	}
	log.Info().Msg("shutdown complete")
}
