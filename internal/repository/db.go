package repository

import (
	"context"
	"fmt"

	"clothing-store/internal/config"
	"clothing-store/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the repositories of one backend with the connection they share.
// It is created once at start-up and closed on shutdown.
type Store struct {
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
	Health   database.Checker

	close func()
}

// Close releases the underlying connection.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewPostgresStore wires the PostgreSQL repositories around pool.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		Products: NewProductRepository(pool, logger),
		Orders:   NewOrderRepository(pool, logger),
		Users:    NewUserRepository(pool, logger),
		Health:   database.PoolChecker{Pool: pool},
		close:    pool.Close,
	}
}

// NewMongoStore wires the MongoDB repositories around the named database.
func NewMongoStore(client *mongo.Client, dbName string, logger zerolog.Logger) *Store {
	db := client.Database(dbName)
	return &Store{
		Products: NewMongoProductRepository(db, logger),
		Orders:   NewMongoOrderRepository(db, logger),
		Users:    NewMongoUserRepository(db, logger),
		Health:   database.MongoChecker{Client: client},
		close: func() {
			_ = client.Disconnect(context.Background())
		},
	}
}

// Open connects to the configured backend, prepares its schema and returns the store.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgresStore(pool, logger), nil

	case config.DriverMongo:
		client, err := database.NewMongoClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return NewMongoStore(client, cfg.MongoDatabase, logger), nil
	}

	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}
