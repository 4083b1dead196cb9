// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// FetchFunc performs the actual remote retrieval for a key. The cache never
// constructs network requests itself; callers supply the fetch and own any
// timeout behavior, which surfaces here as an ordinary error.
type FetchFunc func(ctx context.Context) (any, error)

// Stats is a diagnostic snapshot of the cache. Expired counts entries past
// their TTL that have not yet been swept; Pending counts keys with a fetch
// currently in flight.
type Stats struct {
	Total   int
	Active  int
	Expired int
	Pending int
}

// Config controls cache capacity and sweep behavior.
type Config struct {
	// MaxSize bounds the entry count. <= 0 means unbounded.
	MaxSize int

	// SweepInterval is how often the background sweeper runs.
	// <= 0 disables the background sweep (lazy expiry still applies).
	SweepInterval time.Duration
}

// DefaultMaxSize bounds the store when no size is configured.
const DefaultMaxSize = 1000

// DefaultSweepInterval is how often expired entries are proactively removed
// when no interval is configured.
const DefaultSweepInterval = 10 * time.Minute

// Cache coordinates reads through the store and deduplicates concurrent
// fetches for the same key. The store and the pending-flight bookkeeping are
// owned exclusively by the Cache; callers only go through Resolve.
//
// Construct one Cache per process in main, hand it to whatever needs it, and
// Close it on the way out.
type Cache struct {
	store *Store
	group singleflight.Group

	mu      sync.Mutex
	pending map[string]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New constructs a Cache and starts the background sweeper if an interval is
// configured.
func New(cfg Config) *Cache {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		store:   NewStore(cfg.MaxSize),
		pending: make(map[string]struct{}),
		cancel:  cancel,
	}

	if cfg.SweepInterval > 0 {
		c.wg.Add(1)
		go c.sweepLoop(ctx, cfg.SweepInterval)
	}

	return c
}

// Resolve returns the cached value for key, or runs fetch to produce it.
//
// A fresh entry is returned immediately with no fetch. If a fetch for key is
// already in flight, the caller waits for and shares its outcome. Otherwise
// exactly one fetch runs: on success the value is stored under the class TTL
// and returned to every waiter; on failure nothing is stored, the error goes
// to every current waiter, and the next Resolve starts a fresh attempt.
//
// Keys are opaque; callers namespace by convention, e.g.
// "commit-details-<repo>-<sha>".
func (c *Cache) Resolve(ctx context.Context, key string, class Class, fetch FetchFunc) (any, error) {
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// A racing caller may have completed the fetch and stored the value
		// between our miss and this flight starting.
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}

		c.setPending(key, true)
		defer c.setPending(key, false)

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store.Set(key, v, class.TTL())
		return v, nil
	})

	if shared {
		log.Debugf("coalesced fetch for %s", key)
	}
	return v, err
}

// Get exposes a read-only probe of the store. Most callers want Resolve.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value directly under the class TTL, bypassing deduplication.
func (c *Cache) Set(key string, value any, class Class) {
	c.store.Set(key, value, class.TTL())
}

// Sweep removes every expired entry now, independent of the background
// interval, and returns how many were removed.
func (c *Cache) Sweep() int {
	return c.store.Sweep()
}

// Stats returns a diagnostic snapshot.
func (c *Cache) Stats() Stats {
	total, active, expired := c.store.counts()

	c.mu.Lock()
	pending := len(c.pending)
	c.mu.Unlock()

	return Stats{
		Total:   total,
		Active:  active,
		Expired: expired,
		Pending: pending,
	}
}

// Close stops the background sweeper and waits for it to exit. It is safe to
// call more than once. In-flight fetches are not interrupted; they run to
// completion for whoever is waiting on them.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

// setClock injects a time source for tests. Not safe to call once the cache
// is in use.
func (c *Cache) setClock(now func() time.Time) {
	c.store.now = now
}

func (c *Cache) setPending(key string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.pending[key] = struct{}{}
	} else {
		delete(c.pending, key)
	}
}

func (c *Cache) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.store.Sweep(); n > 0 {
				log.Debugf("sweep removed %d expired entries", n)
			}
		}
	}
}
