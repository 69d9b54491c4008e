package main

import (
	"flag"
	"os"

	"github.com/zakiByline/remui-kids-sub019/internal/bootstrap"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
	"github.com/zakiByline/remui-kids-sub019/internal/server"
)

// @title RemUI Kids School Admin API
// @version 1.0
// @description School analytics dashboards, IOMAD licenses, enrolments, dashboard access and AI assistant training rules for RemUI Kids schools

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", bootstrap.ConfigPath(), "path to the YAML configuration")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
