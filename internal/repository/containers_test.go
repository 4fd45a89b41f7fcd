package repository

import (
	"context"
	"testing"
	"time"

	"clothing-store/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// setupTestMongo creates a MongoDB testcontainer with the application indexes.
func setupTestMongo(t *testing.T) (*mongo.Client, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	require.NoError(t, database.EnsureMongoIndexes(ctx, client.Database("testdb")))

	cleanup := func() {
		_ = client.Disconnect(ctx)
		_ = mongoContainer.Terminate(ctx)
	}

	return client, cleanup
}

// forEachStore runs fn against every backend, each with a fresh container.
func forEachStore(t *testing.T, fn func(t *testing.T, store *Store)) {
	t.Run("postgres", func(t *testing.T) {
		pool, cleanup := setupTestDB(t)
		defer cleanup()
		fn(t, NewPostgresStore(pool, zerolog.Nop()))
	})

	t.Run("mongodb", func(t *testing.T) {
		client, cleanup := setupTestMongo(t)
		defer cleanup()
		fn(t, NewMongoStore(client, "testdb", zerolog.Nop()))
	})
}
