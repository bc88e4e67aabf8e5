package redis

import (
	"context"
	"log"
	"lookbook-service/internal/config"

	"github.com/redis/go-redis/v9"
)

var Redis_Client *redis.Client

func InitRedis(cfg *config.RedisConfig) error {
	Redis_Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := Redis_Client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Error connecting to Redis: %s", err)
		return err
	}
	log.Println("Successfully connected to Redis")
	return nil
}

func Close() {
	if Redis_Client != nil {
		if err := Redis_Client.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
}
