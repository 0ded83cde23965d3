// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"ecofix/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (review stats).
	CacheClient *redis.Client
	// CheckoutClient is the dedicated client for booking wizard sessions.
	CheckoutClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetCheckoutCacheClient returns the Redis client holding checkout sessions.
func GetCheckoutCacheClient() *redis.Client {
	if CheckoutClient == nil {
		CheckoutClient = newRedisClient(config.AppConfig.RedisCheckoutDB, "Checkout")
	}
	return CheckoutClient
}
