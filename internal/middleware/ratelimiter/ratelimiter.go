package ratelimiter

import (
	"context"
	"time"
)

// Limiter decides if the request identified by key can go through.
// When it can not, the duration is how long the caller should back off.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
	Config() Config
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
	KeyPrefix            string
}

func (c Config) Key(key string) string {
	if c.KeyPrefix == "" {
		return key
	}
	return c.KeyPrefix + ":" + key
}
