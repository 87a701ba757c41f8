package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/cartledger-api/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps cart collections as JSON values in redis. Cart
// operations carry no cancellation semantics, so calls run against a
// background context.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to redis at addr and verifies the connection.
// A zero ttl keeps carts until they are destroyed.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Get(key string) (models.Collection, error) {
	raw, err := s.rdb.Get(context.Background(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: read %q: %w", key, err)
	}

	var col models.Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		// Unreadable payload counts as an empty cart.
		return nil, nil
	}
	return col, nil
}

func (s *RedisStore) Put(key string, col models.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	if err := s.rdb.Set(context.Background(), key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: write %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(key string) error {
	if err := s.rdb.Del(context.Background(), key).Err(); err != nil {
		return fmt.Errorf("session: delete %q: %w", key, err)
	}
	return nil
}
