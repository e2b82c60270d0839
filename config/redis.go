package config

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// GetRedisDB returns the redis client, or nil when REDIS_ADDR is unset. The
// mirror snapshot cache treats a nil client as "no cache".
func GetRedisDB() *redis.Client {
	return rdb
}

// InitRedis connects to redis when REDIS_ADDR is configured. Redis is an
// optional enrichment; a failed ping only logs a warning.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		Logger().Warnf("redis unreachable at %s: %v", addr, err)
		rdb = nil
		return
	}
	Logger().Infof("redis connected at %s", addr)
}
