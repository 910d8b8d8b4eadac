package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/bootstrap"
	"github.com/ncastell/classtrack/internal/server"
)

// @title ClassTrack API
// @version 1.0
// @description Role-based academic records backend: grades, attendance with QR check-in, participation and family dashboards.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := bootstrap.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up database")
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database)
	if err != nil {
		database.Close()
		log.Fatal().Err(err).Msg("Failed to build dependencies")
	}

	if err := server.New(deps).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}
