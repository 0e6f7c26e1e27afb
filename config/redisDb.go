package config

import (
	"context"
	"log"
	"os"

	"github.com/bsm/redislock"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

// ConnectRedis dials Redis and sets the global client + lock client.
// Redis is a best-effort dependency here (rate limiting and job singleton
// locks); callers must tolerate a nil client.
func ConnectRedis() {
	godotenv.Load()
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		log.Printf("REDIS_ADDRESS not set; redis-backed features disabled")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis not reachable at %s: %v; redis-backed features disabled", address, err)
		return
	}
	rdb = client
	locker = redislock.New(client)
}
