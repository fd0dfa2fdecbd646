// Package database opens the MongoDB connection backing the document store.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo connects, pings the primary and returns the configured
// database. Callers disconnect through db.Client().
func ConnectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Infof("connected to MongoDB database %q", cfg.Database)
	return client.Database(cfg.Database), nil
}
