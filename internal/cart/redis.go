package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps carts in redis so they survive navigation and
// reloads. Last write wins: concurrent sessions on the same token are
// not reconciled.
type RedisStorage struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{
		client:  client,
		baseTTL: 30 * 24 * time.Hour,
	}
}

func (r *RedisStorage) Load(ctx context.Context, token string) (*Contents, error) {
	data, err := r.client.Get(ctx, storageKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Contents{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var contents Contents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &contents, nil
}

func (r *RedisStorage) Save(ctx context.Context, token string, contents *Contents) error {
	data, err := json.Marshal(contents)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, storageKey(token), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, storageKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storageKey(token string) string {
	return fmt.Sprintf("sokay-cart-storage:%s", token)
}
