package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/app"
	"github.com/you/storefront/internal/config"
	"github.com/you/storefront/internal/infrastructure/auth"
	"github.com/you/storefront/internal/infrastructure/logging"
	"github.com/you/storefront/internal/infrastructure/repositories"
)

// Creates an admin account. The password is read from ADMIN_PASSWORD so it
// never shows up in shell history.
func main() {
	username := flag.String("username", "", "admin username")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if *username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: ADMIN_PASSWORD=... admin-init -username <name>")
		os.Exit(2)
	}
	if len(password) < 12 {
		log.Fatal().Msg("ADMIN_PASSWORD must be at least 12 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger := logging.New(logging.Config{Mode: cfg.Mode, Level: cfg.LogLevel})

	c := app.NewContainer(cfg, logger)
	defer c.Close()

	db, err := c.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("database")
	}
	// make sure the admin can reach the admin routes on first start
	if _, err := c.Casbin(); err != nil {
		logger.Fatal().Err(err).Msg("casbin")
	}

	hash, err := auth.NewPasswordService().Hash(password)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash password")
	}

	admins := repositories.NewAdminRepository(db)
	ctx := context.Background()
	if _, err := admins.FindByUsername(ctx, *username); err == nil {
		logger.Fatal().Str("username", *username).Msg("admin already exists")
	} else if !errors.Is(err, domain.ErrActorNotFound) {
		logger.Fatal().Err(err).Msg("lookup admin")
	}

	admin := &domain.Admin{Username: *username, PasswordHash: hash}
	if err := admins.Create(ctx, admin); err != nil {
		logger.Fatal().Err(err).Msg("create admin")
	}
	logger.Info().Uint("id", admin.ID).Str("username", admin.Username).Msg("admin created")
}
