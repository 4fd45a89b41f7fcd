// Command seed creates the admin account used to manage the storefront.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"clothing-store/internal/auth"
	"clothing-store/internal/config"
	"clothing-store/internal/repository"
)

const developmentPassword = "admin123"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	email := flag.String("email", cfg.Seed.AdminEmail, "admin email (ADMIN_EMAIL)")
	password := flag.String("password", cfg.Seed.AdminPassword, "admin password (ADMIN_PASSWORD)")
	flag.Parse()

	logger := config.NewLogger(cfg.Logger)

	if *password == "" {
		if cfg.IsProduction() {
			return fmt.Errorf("admin password is required in production")
		}
		*password = developmentPassword
		logger.Warn().Msg("ADMIN_PASSWORD not set, using the development default")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	created, err := auth.SeedAdmin(ctx, store.Users, *email, *password)
	if err != nil {
		return err
	}

	if !created {
		logger.Info().Str("email", *email).Msg("admin user already exists")
		return nil
	}

	logger.Info().Str("email", *email).Msg("admin user created")
	return nil
}
