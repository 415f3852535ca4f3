// Package tokenlimiter counts uses of a token inside a fixed interval and rejects the
// calls that go past a caller supplied limit.
//
// The limiter only lives in this process. Counts are lost on restart and two
// processes never see each other's usage.
package tokenlimiter

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/apperr"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokencache"
)

var ErrRateLimited = fmt.Errorf("tokenlimiter: rate limited: %w", apperr.ErrTooManyRequests)

// Usage is what a check reports back, whether it passed or not.
type Usage struct {
	Limit     int
	Remaining int
	// when the token's interval ends and its counter starts over
	ResetAt time.Time
	Allowed bool
}

// WriteHeaders exposes the usage on a response.
func (u Usage) WriteHeaders(h http.Header) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(u.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(u.Remaining))
	if !u.Allowed && !u.ResetAt.IsZero() {
		h.Set("Retry-After", strconv.Itoa(u.retryAfterSeconds()))
	}
}

func (u Usage) retryAfterSeconds() int {
	secs := int(math.Ceil(time.Until(u.ResetAt).Seconds()))
	return max(secs, 1)
}

type Limiter struct {
	cache *tokencache.Cache
	// one lock around lookup, insert, increment and compare, so two concurrent
	// checks can not both read the same count and pass
	mu sync.Mutex
}

func New(cache *tokencache.Cache) *Limiter {
	return &Limiter{cache: cache}
}

// Check records one use of token and reports whether the use fits inside limit.
// A rejected call returns ErrRateLimited along with the usage.
func (l *Limiter) Check(token string, limit int) (Usage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counter, ok := l.cache.Get(token)
	if !ok {
		counter = new(tokencache.Counter)
		l.cache.Set(token, counter)
	}
	uses := counter.Inc()

	usage := Usage{Limit: limit}
	usage.ResetAt, _ = l.cache.ExpiresAt(token)

	if uses > limit {
		return usage, ErrRateLimited
	}

	usage.Allowed = true
	usage.Remaining = max(limit-uses, 0)
	return usage, nil
}

// Close drops every counter. The limiter must not be used afterwards.
func (l *Limiter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Purge()
}
