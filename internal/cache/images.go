// Package cache keeps rendered maze images in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Images struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewImages(opts *redis.Options, ttl time.Duration) *Images {
	return &Images{rdb: redis.NewClient(opts), ttl: ttl}
}

func Key(mazeId uuid.UUID, variant string) string {
	if variant == "" {
		return fmt.Sprintf("maze:%s:png", mazeId)
	}
	return fmt.Sprintf("maze:%s:png:%s", mazeId, variant)
}

func (c *Images) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get reports ok == false on a cache miss.
func (c *Images) Get(ctx context.Context, key string) (b []byte, ok bool, err error) {
	b, err = c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *Images) Set(ctx context.Context, key string, b []byte) error {
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *Images) Close() error {
	return c.rdb.Close()
}
