package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/sakilahmmad71/railway-test-depl/config"
)

// ConnectRedis dials the shared Redis instance backing the token
// revocation set. Callers only invoke this when RedisAddr is configured.
func ConnectRedis(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Redis connection successfully opened.")
	return rdb
}
