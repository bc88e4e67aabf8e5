package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"lookbook-service/internal/database/redis"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis_v9.Client
}

func NewRedisRepo() *RedisRepo {
	return &RedisRepo{
		client: redis.Redis_Client,
	}
}

// SaveSignedURLs caches the signed display URLs of a look. The cache TTL stays
// below the URL TTL so a cache hit never hands out an expired URL.
func (r *RedisRepo) SaveSignedURLs(ctx context.Context, lookID string, urls map[string]string, ttl time.Duration) error {
	val, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("error saving signed urls to cache: %s", err)
	}
	key := "look-url-cached:" + lookID
	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("error saving signed urls to cache: %s", err)
	}
	return nil
}

// GetSignedURLs returns the cached signed URLs of a look, or nil on a miss.
func (r *RedisRepo) GetSignedURLs(ctx context.Context, lookID string) (map[string]string, error) {
	key := "look-url-cached:" + lookID
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis_v9.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting signed urls from cache: %s", err)
	}

	var urls map[string]string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// DropSignedURLs evicts a look's cached URLs. Called whenever an image is
// replaced or the look is deleted.
func (r *RedisRepo) DropSignedURLs(ctx context.Context, lookID string) error {
	result := r.client.Del(ctx, "look-url-cached:"+lookID)
	if result.Err() != nil {
		return fmt.Errorf("error deleting cached urls for %s: %w", lookID, result.Err())
	}
	return nil
}

// AcquireExportLock marks a look export as in flight. Returns false when an
// export for the same look already holds the lock.
func (r *RedisRepo) AcquireExportLock(ctx context.Context, lookID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, "look-export-lock:"+lookID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("error acquiring export lock: %s", err)
	}
	return ok, nil
}

// ReleaseExportLock clears the in-flight marker of a look export.
func (r *RedisRepo) ReleaseExportLock(ctx context.Context, lookID string) error {
	result := r.client.Del(ctx, "look-export-lock:"+lookID)
	if result.Err() != nil {
		return fmt.Errorf("error releasing export lock for %s: %w", lookID, result.Err())
	}
	return nil
}
