package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Limits struct {
	MaxWidth  int
	MaxHeight int
	CacheTTL  time.Duration
}

func lookupInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

func NewLimits() (*Limits, error) {
	maxWidth, err := lookupInt("MAZE_MAX_WIDTH", 200)
	if err != nil {
		return nil, err
	}
	maxHeight, err := lookupInt("MAZE_MAX_HEIGHT", 200)
	if err != nil {
		return nil, err
	}

	ttl := time.Hour
	if s, ok := os.LookupEnv("MAZE_CACHE_TTL"); ok {
		ttl, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("MAZE_CACHE_TTL must be a duration: %w", err)
		}
	}

	limits := &Limits{
		MaxWidth:  maxWidth,
		MaxHeight: maxHeight,
		CacheTTL:  ttl,
	}
	return limits, nil
}

func (l Limits) Allow(width, height int) bool {
	return width <= l.MaxWidth && height <= l.MaxHeight
}
