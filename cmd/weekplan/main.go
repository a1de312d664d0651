package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hanbit-dev/weekplan/internal/config"
	"github.com/hanbit-dev/weekplan/internal/feedback"
	"github.com/hanbit-dev/weekplan/internal/lifecycle"
	"github.com/hanbit-dev/weekplan/internal/server"
	"github.com/hanbit-dev/weekplan/internal/store/postgres"
	redisstore "github.com/hanbit-dev/weekplan/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("WEEKPLAN_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("WEEKPLAN_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis when configured; the live feed is optional.
	var (
		pubsub    *redisstore.PubSub
		publisher lifecycle.Publisher
	)
	if cfg.Redis.Addr != "" {
		pubsub, err = redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()
		publisher = redisstore.NewEventPublisher(pubsub)
	} else {
		log.Info().Msg("WEEKPLAN_REDIS_ADDR not set; live task feed disabled")
	}

	// Create the lifecycle service.
	tasks := lifecycle.NewService(store.Tasks(), store.Events(), publisher)

	// Create the feedback generator: LLM-backed when a key is configured,
	// canned messages otherwise.
	var gen feedback.Generator
	if cfg.Feedback.APIKey != "" {
		gen = feedback.NewOpenAIGenerator(cfg.Feedback.APIKey, cfg.Feedback.Model)
		log.Info().Str("model", cfg.Feedback.Model).Msg("LLM feedback enabled")
	} else {
		gen = feedback.NewStaticGenerator()
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, pubsub, tasks, gen)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
