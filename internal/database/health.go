package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Checker reports store connectivity for the health endpoint.
type Checker interface {
	// Ping verifies the store answers.
	Ping(ctx context.Context) error
	// Reconnect drops stale connections so the next use dials again, then pings.
	Reconnect(ctx context.Context) error
}

// PoolChecker checks a pgx pool.
type PoolChecker struct {
	Pool *pgxpool.Pool
}

func (c PoolChecker) Ping(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}

func (c PoolChecker) Reconnect(ctx context.Context) error {
	c.Pool.Reset()
	return c.Pool.Ping(ctx)
}

// MongoChecker checks a mongo client. The driver re-dials on its own once the
// server is reachable, so reconnecting is a primary-read ping.
type MongoChecker struct {
	Client *mongo.Client
}

func (c MongoChecker) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c MongoChecker) Reconnect(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.PrimaryPreferred())
}
