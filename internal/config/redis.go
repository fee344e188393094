package config

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Greggwolin/landscape-sub008/internal/logger"
)

// OpenRedisFromEnv builds a redis client from REDIS_* env vars. Returns nil
// when REDIS_ENABLED is not "true", which disables the cache layer entirely;
// callers treat a nil client as "no cache".
func OpenRedisFromEnv() *redis.Client {
	if os.Getenv("REDIS_ENABLED") != "true" {
		return nil
	}
	host := envOr("REDIS_HOST", "127.0.0.1")
	port := envOr("REDIS_PORT", "6379")
	addr := host + ":" + port
	pass := os.Getenv("REDIS_PASS")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		// parse errors fall back to db 0
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}
