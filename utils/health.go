package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the dependency snapshot served by /health: the timeslot
// store, the availability cache, and the redis DB backing the maintenance
// queue.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Cache     bool      `json:"cache"`
	Queue     bool      `json:"queue"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings each dependency once a minute and stores the
// result. A nil redis client marks that dependency unhealthy rather than
// panicking.
func StartHealthMonitor(cache, queue *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

			status := HealthStatus{
				Mongo:     mongoClient.Ping(ctx, nil) == nil,
				CheckedAt: time.Now().UTC(),
			}
			if cache != nil {
				status.Cache = cache.Ping(ctx).Err() == nil
			}
			if queue != nil {
				status.Queue = queue.Ping(ctx).Err() == nil
			}
			cancel()

			healthMu.Lock()
			currentHealth = status
			healthMu.Unlock()
		}
	}()
}
