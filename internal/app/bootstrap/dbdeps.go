// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	HubMongoClient   *mongo.Client
	HubMongoDatabase *mongo.Database

	// HubRedis backs the shared rate limit counters. Nil when redis_url
	// is unset; limits are then kept per process.
	HubRedis *redis.Client
}
