// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"slotify/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client, used for availability read caching.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// QueueClient points at the redis DB backing the maintenance queue. Asynq
// manages its own connections from the same options; this one exists so the
// health monitor can observe the queue backend directly.
var QueueClient *redis.Client

// GetQueueClient returns the queue-DB client, creating it on first use.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		QueueClient = redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
	}
	return QueueClient
}
