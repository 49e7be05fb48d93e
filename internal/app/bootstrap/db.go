// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	adminrequeststore "github.com/oneheartblacktown/hub/internal/app/store/adminrequests"
	"github.com/oneheartblacktown/hub/internal/app/system/indexes"
	"github.com/oneheartblacktown/hub/internal/app/system/validators"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and verifies it with a ping. The
// returned handles are the only ones the app uses; handlers receive them
// through their constructors.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, appCfg.MongoConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("hub").
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	deps := DBDeps{
		HubMongoClient:   client,
		HubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisURL != "" {
		rc, err := connectRedis(ctx, appCfg.RedisURL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			logger.Error("redis connect failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("redis connect: %w", err)
		}
		deps.HubRedis = rc
		logger.Info("connected to Redis")
	}
	return deps, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

// EnsureSchema rewrites legacy request statuses into canonical form, then
// creates collection validators and indexes. All three steps are
// idempotent and safe to run on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.HubMongoDatabase
	fixed, unknown, err := adminrequeststore.New(db).NormalizeStatuses(ctx)
	if err != nil {
		logger.Error("normalize admin request statuses failed", zap.Error(err))
		return err
	}
	if fixed > 0 {
		logger.Info("normalized admin request statuses", zap.Int64("count", fixed))
	}
	if unknown > 0 {
		logger.Warn("admin requests with unrecognized status left unchanged", zap.Int64("count", unknown))
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure collection validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("schema ensured")
	return nil
}
