package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sitepulse/config"
	"sitepulse/internals/app"
	"sitepulse/internals/server"
	"sitepulse/pkg/logger"
	"syscall"
)

func main() {
	cfgPath := flag.String("config", "env.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single monitoring cycle and exit")
	flag.Parse()

	// Load envs
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Get Context with signals attached -> when ever a signal occurs, the Done channel of ctx gets closed
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Msg("logger initialized")

	// Inject Dependencies
	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().Msg("dependencies initialized")

	// Manual one-shot mode: exit 0 when the cycle completed, whatever the
	// checks found; only an orchestration error is a non-zero exit.
	if *once {
		_, err := container.Runner.RunCycle(ctx)
		if shutdownErr := container.Shutdown(); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("dependencies shutdown failed")
		}
		if err != nil {
			log.Error().Err(err).Msg("monitoring cycle errored")
			os.Exit(1)
		}
		return
	}

	// Optional status server
	var srv *server.Server
	if cfg.Port > 0 {
		router := app.RegisterRoutes(container)
		log.Info().Msg("routes registered")

		srv = server.New(fmt.Sprintf(":%d", cfg.Port), router, log)
		srv.Start()
	}

	// Start the cron scheduler
	container.Scheduler.Start()
	log.Info().Str("schedule", cfg.Monitor.Schedule).Msg("monitoring scheduled")

	// main goroutine waits for gracefull shutdown
	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (stop accepting requests)
	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}

	// 2. Let a running cycle finish
	<-container.Scheduler.Stop().Done()

	// 3. Shutdown infra
	if err := container.Shutdown(); err != nil {
		log.Error().Err(err).Msg("dependencies shutdown failed")
	}

	log.Info().Msg("graceful shutdown complete")
}
