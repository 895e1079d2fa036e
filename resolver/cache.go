package resolver

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// HostTTL is how long a resolved host stays valid. Expiry is checked lazily
// on access; there is no background refresh.
const HostTTL = 60 * time.Minute

// resolveKey is the singleflight key; a Cache serves exactly one service.
const resolveKey = "resolve"

// Cache memoizes one service's resolved host for HostTTL. Concurrent lookups
// while no valid host is cached collapse into a single resolver call whose
// outcome, success or failure, reaches every waiter. Failures store nothing,
// so the next lookup starts a fresh resolution.
type Cache struct {
	resolver ServiceResolver
	service  string
	clock    clockwork.Clock

	mu     sync.RWMutex
	host   string
	expiry time.Time

	sfg singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock injects the clock used for expiry checks.
func WithClock(clock clockwork.Clock) CacheOption {
	return func(c *Cache) {
		c.clock = clock
	}
}

// NewCache creates a host cache for service backed by resolver.
func NewCache(resolver ServiceResolver, service string, opts ...CacheOption) *Cache {
	c := &Cache{
		resolver: resolver,
		service:  service,
		clock:    clockwork.NewRealClock(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Host returns the cached host, resolving it first if absent or expired.
func (c *Cache) Host(ctx context.Context) (string, error) {
	// Fast path: valid cached value
	if host, ok := c.cached(); ok {
		return host, nil
	}

	// Slow path: collapse concurrent resolutions into one flight
	result, err, _ := c.sfg.Do(resolveKey, func() (any, error) {
		// Double-check after winning the flight
		if host, ok := c.cached(); ok {
			return host, nil
		}

		host, err := c.resolver.Resolve(ctx, c.service)
		if err != nil {
			return nil, err
		}
		if host == "" {
			return nil, NewResolutionError(c.service, "resolver returned empty host", nil)
		}

		c.store(host)
		return host, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// Invalidate drops the cached host; the next Host call resolves again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.host = ""
	c.expiry = time.Time{}
}

func (c *Cache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.host == "" || !c.clock.Now().Before(c.expiry) {
		return "", false
	}
	return c.host, true
}

func (c *Cache) store(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.host = host
	c.expiry = c.clock.Now().Add(HostTTL)
}
