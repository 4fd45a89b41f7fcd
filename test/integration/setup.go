package integration

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"clothing-store/internal/auth"
	"clothing-store/internal/config"
	"clothing-store/internal/handler"
	"clothing-store/internal/repository"
	"clothing-store/internal/router"
	"clothing-store/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	adminEmail    = "admin@store.com"
	adminPassword = "admin123"
)

// TestServer is a running API backed by a real store in a container.
type TestServer struct {
	*httptest.Server
	Store *repository.Store
}

// startPostgres returns the database config of a fresh PostgreSQL container.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		URL:             connStr,
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: time.Hour,
		ConnectTimeout:  10 * time.Second,
	}
}

// startMongo returns the database config of a fresh MongoDB container.
func startMongo(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	return config.DatabaseConfig{
		Driver:         config.DriverMongo,
		MongoURI:       uri,
		MongoDatabase:  "testdb",
		ConnectTimeout: 10 * time.Second,
	}
}

// SetupTestServer wires the full application around dbCfg with a seeded admin.
func SetupTestServer(t *testing.T, dbCfg config.DatabaseConfig) *TestServer {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	cfg := &config.Config{
		Environment: config.EnvironmentDevelopment,
		Database:    dbCfg,
		Auth: config.AuthConfig{
			JWTSecret:  "integration-secret",
			TokenTTL:   7 * 24 * time.Hour,
			CookieName: "token",
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}

	store, err := repository.Open(ctx, cfg.Database, logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	_, err = auth.SeedAdmin(ctx, store.Users, adminEmail, adminPassword)
	require.NoError(t, err)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	require.NoError(t, err)

	authService := auth.NewService(store.Users, tokens, logger)
	productService := service.NewProductService(store.Products, logger)
	orderService := service.NewOrderService(store.Orders, store.Products, false, logger)

	handlers := router.Handlers{
		Products: handler.NewProductHandler(productService, true, logger),
		Orders:   handler.NewOrderHandler(orderService, true, logger),
		Auth:     handler.NewAuthHandler(authService, auth.CookieOptionsFromConfig(cfg), true, logger),
		Health:   handler.NewHealthHandler(store.Health, logger),
	}

	server := httptest.NewServer(router.New(cfg, handlers, authService, logger))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, Store: store}
}

// NewClient returns a client that keeps session cookies between requests.
func (s *TestServer) NewClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 30 * time.Second}
}

// forEachBackend runs fn against a server on each supported store.
func forEachBackend(t *testing.T, fn func(t *testing.T, server *TestServer)) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	t.Run("postgres", func(t *testing.T) {
		fn(t, SetupTestServer(t, startPostgres(t)))
	})

	t.Run("mongodb", func(t *testing.T) {
		fn(t, SetupTestServer(t, startMongo(t)))
	})
}
