package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"salescast/config"
	"salescast/database"
	"salescast/insight"
	"salescast/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load configuration")
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := database.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to connect to database")
	}
	defer store.Close()

	var summarizer insight.Summarizer
	if cfg.GeminiEnabled() {
		summarizer = insight.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		log.Warn().Msg("GEMINI_API_KEY is not set, forecast insights are disabled")
	}

	app := newServer(cfg, store, summarizer)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	// Start server
	log.Info().Str("addr", cfg.Addr()).Msg("🚀 Serving salescast")
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
