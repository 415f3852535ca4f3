package mem_ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter"
	"golang.org/x/time/rate"
)

const (
	vacuumEvery = time.Minute
	idleFor     = 3 * time.Minute
)

// NewTokenBucketLimiter refills RequestsPerTimeFrame tokens over TimeFrame, with
// a burst of RequestsPerTimeFrame. Idle clients are dropped until ctx is done.
func NewTokenBucketLimiter(ctx context.Context, conf ratelimiter.Config) ratelimiter.Limiter {
	tb := newTokenBucket(conf, time.Now)
	go tb.vacuum(ctx, vacuumEvery)

	return &memRatelimiter{
		conf: conf,
		allow: func(ctx context.Context, key string) (bool, time.Duration) {
			return tb.allow(key)
		},
	}
}

type tokenBucket struct {
	conf    ratelimiter.Config
	every   rate.Limit
	now     func() time.Time
	clients map[string]*client
	mu      sync.Mutex
}

type client struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

func newTokenBucket(conf ratelimiter.Config, now func() time.Time) *tokenBucket {
	perTimeFrame := max(conf.RequestsPerTimeFrame, 1)
	return &tokenBucket{
		conf:    conf,
		every:   rate.Every(conf.TimeFrame / time.Duration(perTimeFrame)),
		now:     now,
		clients: map[string]*client{},
	}
}

func (tb *tokenBucket) allow(key string) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	c, ok := tb.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(tb.every, tb.conf.RequestsPerTimeFrame)}
		tb.clients[key] = c
	}
	c.lastUsed = now

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, tb.conf.TimeFrame
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (tb *tokenBucket) vacuum(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tb.dropIdle()
		}
	}
}

func (tb *tokenBucket) dropIdle() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	for k, v := range tb.clients {
		if now.Sub(v.lastUsed) >= idleFor {
			delete(tb.clients, k)
		}
	}
}
