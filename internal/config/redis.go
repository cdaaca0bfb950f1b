package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance backing the booking rate
// limiter and the menu/table response cache.  Supported variables:
//
//	REDIS_URL  – full redis:// or rediss:// URL; takes precedence when set
//	REDIS_ADDR – host:port (default localhost:6379)
//	REDIS_PASSWORD, REDIS_DB – credentials and database number
//
// Redis is an optional dependency here: when the ping fails the function
// logs and returns nil, and the server boots with the limiter and cache
// disabled rather than refusing to start.
func NewRedisClient() *redis.Client {
	var opts *redis.Options
	if url := os.Getenv("REDIS_URL"); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			log.Printf("redis: invalid REDIS_URL: %v", err)
			return nil
		}
		opts = parsed
	} else {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		db := 0
		if s := os.Getenv("REDIS_DB"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				db = n
			}
		}
		opts = &redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: %s unreachable, rate limiter and cache disabled: %v", opts.Addr, err)
		return nil
	}
	return client
}
