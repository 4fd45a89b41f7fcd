package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clothing-store/internal/auth"
	"clothing-store/internal/config"
	"clothing-store/internal/handler"
	"clothing-store/internal/repository"
	"clothing-store/internal/router"
	"clothing-store/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("driver", cfg.Database.Driver).
		Msg("starting storefront API server")

	if cfg.Auth.JWTSecret == "" {
		secret, err := ephemeralSecret()
		if err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		logger.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; sessions end on restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Services
	authService := auth.NewService(store.Users, tokens, logger)
	productService := service.NewProductService(store.Products, logger)
	orderService := service.NewOrderService(store.Orders, store.Products, cfg.Orders.RepriceFromCatalog, logger)

	// Handlers
	exposeDetails := !cfg.IsProduction()
	handlers := router.Handlers{
		Products: handler.NewProductHandler(productService, exposeDetails, logger),
		Orders:   handler.NewOrderHandler(orderService, exposeDetails, logger),
		Auth:     handler.NewAuthHandler(authService, auth.CookieOptionsFromConfig(cfg), exposeDetails, logger),
		Health:   handler.NewHealthHandler(store.Health, logger),
	}

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.New(cfg, handlers, authService, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// ephemeralSecret returns 32 random bytes, base64 encoded.
func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
