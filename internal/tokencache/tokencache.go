// Package tokencache holds per-token usage counters in a fixed size, time expiring cache.
//
// The cache keeps at most Capacity entries. Inserting a new key into a full cache evicts
// the least recently used entry. An entry is treated as absent once Interval has elapsed
// since it was last Set; expired entries are only dropped lazily, when touched.
package tokencache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	DefaultCapacity = 500
	DefaultInterval = time.Minute
)

type Config struct {
	// max number of unique tokens held at once
	Capacity int
	// time to live of every entry, counted from its last Set
	Interval time.Duration
}

// Counter is the number of uses seen for a token since its entry was inserted.
// The cache hands out the same *Counter on every Get, so callers mutate it in place.
type Counter struct {
	uses int
}

func (c *Counter) Inc() int {
	c.uses++
	return c.uses
}

func (c *Counter) Uses() int {
	return c.uses
}

type entry struct {
	counter *Counter
	setAt   time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

type Cache struct {
	conf Config
	now  func() time.Time

	mu  sync.Mutex
	lru *simplelru.LRU[string, entry]
}

func New(conf Config, opts ...Option) *Cache {
	if conf.Capacity <= 0 {
		conf.Capacity = DefaultCapacity
	}
	if conf.Interval <= 0 {
		conf.Interval = DefaultInterval
	}

	// NewLRU only fails on a non positive size, which we ruled out above.
	lru, err := simplelru.NewLRU[string, entry](conf.Capacity, nil)
	if err != nil {
		panic(err)
	}

	c := &Cache{
		conf: conf,
		now:  time.Now,
		lru:  lru,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Config() Config {
	return c.conf
}

// Get returns the counter stored under key, if the entry exists and has not expired.
// A hit marks the entry as the most recently used one.
func (c *Cache) Get(key string) (*Counter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if c.isExpired(e) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.counter, true
}

// Set stores counter under key, restarting the entry's TTL and refreshing its recency.
func (c *Cache) Set(key string, counter *Counter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lru.Contains(key) && c.lru.Len() >= c.conf.Capacity {
		c.dropExpired()
	}
	c.lru.Add(key, entry{counter: counter, setAt: c.now()})
}

// ExpiresAt reports when the live entry for key stops being visible.
// It does not touch the entry's recency.
func (c *Cache) ExpiresAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok || c.isExpired(e) {
		return time.Time{}, false
	}
	return e.setAt.Add(c.conf.Interval), true
}

// Len counts the held entries, including expired ones that were not dropped yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry. Called on shutdown.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *Cache) isExpired(e entry) bool {
	return !c.now().Before(e.setAt.Add(c.conf.Interval))
}

// dropExpired removes every expired entry, so a full cache does not evict a live
// entry while dead ones are still taking up room.
func (c *Cache) dropExpired() {
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && c.isExpired(e) {
			c.lru.Remove(k)
		}
	}
}
