// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	"github.com/dalemusser/doubtspanel/internal/app/system/indexes"
	"github.com/dalemusser/doubtspanel/internal/app/system/ratelimit"
	"github.com/dalemusser/doubtspanel/internal/app/system/search"
	"github.com/dalemusser/doubtspanel/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client, verifies it with a ping and builds
// the in-memory search and sign-in state that lives beside it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := appCfg.Timeouts.WithPing(ctx)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	registry := search.NewRegistry(doubtstore.New(db), appCfg.SearchDebounce)
	signIns := ratelimit.New(signInLimit, signInWindow)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Search:        registry,
		SignIns:       signIns,
		Workers: []*workers.Prune{
			workers.NewPrune("search", registry, logger, pruneInterval, searchIdleAfter),
			workers.NewPrune("signin_limit", signIns, logger, pruneInterval, signInWindow),
		},
	}, nil
}

// EnsureSchema reconciles the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index reconciliation failed", zap.Error(err))
		return err
	}
	return nil
}
