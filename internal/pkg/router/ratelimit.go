package router

import (
	"net"
	"strconv"

	"github.com/gofiber/storage/redis"

	"github.com/watchhubtv/watchhub/internal/pkg/cache"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
)

// newLimiterStorage creates the Redis backing store for the rate limiter,
// reusing the cache connection settings. Database 1 keeps limiter counters
// apart from the cache keys in database 0.
func newLimiterStorage() *redis.Storage {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
