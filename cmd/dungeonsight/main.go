// Package main is the entry point for DungeonSight.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/samdwyer/dungeonsight/internal/game"
	"github.com/samdwyer/dungeonsight/internal/logging"
	"github.com/samdwyer/dungeonsight/internal/telemetry"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_DUNGEONSIGHT_API_KEY and DUNGEONSIGHT_* available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closer.Close()

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx := context.Background()

	sessionID := uuid.New()
	shutdown, err := telemetry.Setup(ctx, sessionID.String())
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry setup failed, running without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	g, err := game.New(sessionID, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("game error")
		log.Fatalf("Game error: %v", err)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Build the headers from the API key here; a .env file may carry an
	// unexpanded variable reference instead.
	apiKey := os.Getenv("HONEYCOMB_DUNGEONSIGHT_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DUNGEONSIGHT_DATASET")
	if dataset == "" {
		dataset = "dungeonsight" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
