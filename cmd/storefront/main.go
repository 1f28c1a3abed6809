package main

import (
	"github.com/rs/zerolog/log"
	"github.com/you/storefront/internal/app"
	"github.com/you/storefront/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := app.Run(cfg); err != nil {
		log.Fatal().Err(err).Msg("app")
	}
}
