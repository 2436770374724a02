package main

import (
	"github.com/rs/zerolog/log"

	"maitred/config"
	"maitred/di"
	"maitred/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	if err := app.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start background jobs")
	}

	app.HTTP.Serve()
}
