package database

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Connect opens the MongoDB connection described by viper config and
// verifies it with a ping. The caller owns the returned client's lifecycle;
// there is no hidden on-demand singleton.
func Connect(ctx context.Context, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.database", "MONGO_DATABASE")

	uri := viper.GetString("mongo.uri")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := viper.GetString("mongo.database")
	if dbName == "" {
		dbName = "prepwise"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Database connected successfully", zap.String("database", dbName))
	return client, client.Database(dbName), nil
}
