// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/storehub/internal/app/system/datastore"
	"github.com/dalemusser/storehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DialFunc opens a verified datastore connection.
type DialFunc func(ctx context.Context, opts datastore.Options) (*mongo.Client, error)

// ConnectDB makes the single MongoDB connection attempt for this process.
func (a *App) ConnectDB(ctx context.Context, cfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	dial := a.Dial
	if dial == nil {
		dial = datastore.Connect
	}

	logger.Info("connecting to MongoDB", zap.String("database", cfg.MongoDatabase))
	client, err := dial(ctx, datastore.Options{
		URI:         cfg.MongoURI,
		MaxPoolSize: cfg.MongoMaxPoolSize,
		MinPoolSize: cfg.MongoMinPoolSize,
		Timeout:     timeouts.Connect(),
	})
	if err != nil {
		logger.Error("MongoDB connection failed", zap.Error(err))
		return DBDeps{}, err
	}

	logger.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(cfg.MongoDatabase),
	}, nil
}
