package main

import (
	"os"

	"github.com/SeattleChris/hepcat-sub000/internal/pkg/logger"
	"github.com/SeattleChris/hepcat-sub000/internal/server"
)

// @title Hepcat Scheduling API
// @version 1.0
// @description Class-scheduling and content-publication engine for a dance studio

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
