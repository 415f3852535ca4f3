package tokencache

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(capacity int, interval time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)}
	return New(Config{Capacity: capacity, Interval: interval}, WithClock(clock.now)), clock
}

func assertEqual(t *testing.T, a, b any) {
	t.Helper()
	if a != b {
		t.Fatalf("expecting values to be equal but got: '%v' and '%v'", a, b)
	}
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestCache(2, time.Second)

	counter, ok := c.Get("nope")
	assertEqual(t, ok, false)
	if counter != nil {
		t.Fatalf("expecting a nil counter, got %+v", counter)
	}
}

func TestSetThenGetReturnsSameCounter(t *testing.T) {
	c, _ := newTestCache(2, time.Second)

	counter := new(Counter)
	c.Set("a", counter)
	counter.Inc()

	got, ok := c.Get("a")
	assertEqual(t, ok, true)
	assertEqual(t, got, counter)
	assertEqual(t, got.Uses(), 1)
}

func TestEntryExpiresAfterInterval(t *testing.T) {
	c, clock := newTestCache(2, 30*time.Second)
	c.Set("a", new(Counter))

	clock.advance(29 * time.Second)
	_, ok := c.Get("a")
	assertEqual(t, ok, true)

	clock.advance(time.Second)
	_, ok = c.Get("a")
	assertEqual(t, ok, false)
	assertEqual(t, c.Len(), 0)
}

func TestGetDoesNotExtendTTL(t *testing.T) {
	c, clock := newTestCache(2, 10*time.Second)
	c.Set("a", new(Counter))

	for range 9 {
		clock.advance(time.Second)
		_, ok := c.Get("a")
		assertEqual(t, ok, true)
	}

	clock.advance(time.Second)
	_, ok := c.Get("a")
	assertEqual(t, ok, false)
}

func TestSetResetsTTL(t *testing.T) {
	c, clock := newTestCache(2, 10*time.Second)
	counter := new(Counter)
	c.Set("a", counter)

	clock.advance(9 * time.Second)
	c.Set("a", counter)

	clock.advance(9 * time.Second)
	_, ok := c.Get("a")
	assertEqual(t, ok, true)
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(3, time.Minute)
	c.Set("a", new(Counter))
	c.Set("b", new(Counter))
	c.Set("c", new(Counter))

	// touch "a" so "b" becomes the coldest entry
	_, ok := c.Get("a")
	assertEqual(t, ok, true)

	c.Set("d", new(Counter))
	assertEqual(t, c.Len(), 3)

	_, ok = c.Get("b")
	assertEqual(t, ok, false)
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expecting %q to survive the eviction", k)
		}
	}
}

func TestReplacingExistingKeyDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", new(Counter))
	c.Set("b", new(Counter))
	c.Set("a", new(Counter))

	assertEqual(t, c.Len(), 2)
	_, ok := c.Get("b")
	assertEqual(t, ok, true)
}

func TestFullCacheDropsExpiredBeforeLiveEntries(t *testing.T) {
	c, clock := newTestCache(2, 10*time.Second)
	c.Set("old", new(Counter))
	clock.advance(6 * time.Second)
	c.Set("live", new(Counter))
	clock.advance(time.Second)
	// "old" becomes the most recently used entry, "live" the coldest one
	_, ok := c.Get("old")
	assertEqual(t, ok, true)
	clock.advance(4 * time.Second) // "old" is expired, "live" is not

	c.Set("new", new(Counter))

	_, ok = c.Get("live")
	assertEqual(t, ok, true)
	_, ok = c.Get("new")
	assertEqual(t, ok, true)
	assertEqual(t, c.Len(), 2)
}

func TestNeverHoldsMoreThanCapacity(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	for i := range 100 {
		c.Set(fmt.Sprint(i), new(Counter))
		if c.Len() > 10 {
			t.Fatalf("cache grew past its capacity: %d", c.Len())
		}
	}
}

func TestExpiresAt(t *testing.T) {
	c, clock := newTestCache(2, 30*time.Second)
	start := clock.now()
	c.Set("a", new(Counter))

	at, ok := c.ExpiresAt("a")
	assertEqual(t, ok, true)
	assertEqual(t, at, start.Add(30*time.Second))

	clock.advance(30 * time.Second)
	_, ok = c.ExpiresAt("a")
	assertEqual(t, ok, false)
}

func TestDefaults(t *testing.T) {
	c := New(Config{})
	assertEqual(t, c.Config().Capacity, DefaultCapacity)
	assertEqual(t, c.Config().Interval, DefaultInterval)
}

func TestPurge(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", new(Counter))
	c.Purge()
	assertEqual(t, c.Len(), 0)
}
