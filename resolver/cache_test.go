package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls int32
	host  string
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return "", s.err
	}
	return s.host, nil
}

func (s *stubResolver) callCount() int32 {
	return atomic.LoadInt32(&s.calls)
}

// gatedResolver blocks every Resolve call until release is closed, so tests
// can pile concurrent lookups onto one in-flight resolution.
type gatedResolver struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	host    string
	err     error
}

func newGatedResolver(host string, err error) *gatedResolver {
	return &gatedResolver{
		started: make(chan struct{}),
		release: make(chan struct{}),
		host:    host,
		err:     err,
	}
}

func (g *gatedResolver) Resolve(_ context.Context, _ string) (string, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.started)
	}
	<-g.release
	if g.err != nil {
		return "", g.err
	}
	return g.host, nil
}

func TestHostCachesResolvedValue(t *testing.T) {
	stub := &stubResolver{host: testHost}
	cache := NewCache(stub, testService)

	for i := 0; i < 5; i++ {
		host, err := cache.Host(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testHost, host)
	}

	assert.Equal(t, int32(1), stub.callCount())
}

func TestHostExpiresAfterTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	stub := &stubResolver{host: testHost}
	cache := NewCache(stub, testService, WithClock(clock))

	_, err := cache.Host(context.Background())
	require.NoError(t, err)

	clock.Advance(HostTTL - time.Minute)
	_, err = cache.Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.callCount(), "value inside TTL should be served from cache")

	clock.Advance(2 * time.Minute)
	host, err := cache.Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testHost, host)
	assert.Equal(t, int32(2), stub.callCount(), "expired value should trigger exactly one re-resolution")
}

func TestHostCollapsesConcurrentLookups(t *testing.T) {
	const waiters = 10

	gated := newGatedResolver(testHost, nil)
	cache := NewCache(gated, testService)

	hosts := make(chan string, waiters)
	errs := make(chan error, waiters)

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			host, err := cache.Host(context.Background())
			hosts <- host
			errs <- err
		}()
	}

	<-gated.started
	time.Sleep(20 * time.Millisecond) // let the remaining lookups join the flight
	close(gated.release)
	wg.Wait()
	close(hosts)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for host := range hosts {
		assert.Equal(t, testHost, host)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&gated.calls))
}

func TestHostFailurePropagatesToAllWaiters(t *testing.T) {
	const waiters = 10

	resolveErr := errors.New("naming service down")
	gated := newGatedResolver("", resolveErr)
	cache := NewCache(gated, testService)

	errs := make(chan error, waiters)

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Host(context.Background())
			errs <- err
		}()
	}

	<-gated.started
	time.Sleep(20 * time.Millisecond)
	close(gated.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.ErrorIs(t, err, resolveErr)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&gated.calls), "one flight should serve every waiter")

	// Nothing was stored: the next lookup resolves again.
	gated.err = nil
	gated.host = testHost

	host, err := cache.Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testHost, host)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gated.calls))
}

func TestHostRejectsEmptyResolvedHost(t *testing.T) {
	stub := &stubResolver{host: ""}
	cache := NewCache(stub, testService)

	_, err := cache.Host(context.Background())
	require.Error(t, err)
	assert.True(t, IsResolutionError(err))
	assert.Contains(t, err.Error(), "resolver returned empty host")
}

func TestInvalidateForcesReResolution(t *testing.T) {
	stub := &stubResolver{host: testHost}
	cache := NewCache(stub, testService)

	_, err := cache.Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.callCount())

	cache.Invalidate()

	_, err = cache.Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.callCount())
}
