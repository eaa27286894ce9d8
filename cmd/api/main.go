package main

import (
	"os"

	"github.com/XiongPengNUS/canvasplus/internal/pkg/logger"
	"github.com/XiongPengNUS/canvasplus/internal/server"
)

// @title CanvasPlus API
// @version 1.0
// @description Roster and discussion exports for Canvas courses

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Canvas access token, passed through to the course directory

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
}
