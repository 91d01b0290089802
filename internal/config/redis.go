package config

import (
	"os"

	"github.com/redis/go-redis/v9"
)

// NewRedisOptions returns nil options when REDIS_URL is not set; the image
// cache is disabled in that case.
func NewRedisOptions() (*redis.Options, error) {
	url, ok := os.LookupEnv("REDIS_URL")
	if !ok || url == "" {
		return nil, nil
	}
	return redis.ParseURL(url)
}
