// Package querycache implements the keyed read-or-fetch store the views go
// through for every remote read. A key maps to its last-fetched value, its
// freshness, and the fetch function that produced it; invalidating a key
// marks it stale and refreshes it for mounted subscribers.
package querycache

import (
	"context"
	"sync"

	"github.com/avolkov/pawshare/internal/logging"
)

// Key identifies one cacheable query. All reads sharing a Key are invalidated
// together.
type Key string

// FetchFunc loads the value for a key from the remote store.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value any
	fresh bool
	fetch FetchFunc
}

// Cache is a process-wide keyed store of query results. It is safe for
// concurrent use; fetch functions run without the cache lock held.
type Cache struct {
	logger logging.Logger

	mu          sync.Mutex
	entries     map[Key]*entry
	subscribers map[Key]map[int]func(any)
	nextSubID   int
}

func New(logger logging.Logger) *Cache {
	return &Cache{
		logger:      logger,
		entries:     make(map[Key]*entry),
		subscribers: make(map[Key]map[int]func(any)),
	}
}

// ReadOrFetch returns the cached value when the key is fresh; otherwise it
// runs fetch, stores the result as fresh, and remembers fetch for later
// invalidation-driven refreshes. A failed fetch leaves the entry stale and
// returns the error unchanged; no stale value is substituted for it.
func (c *Cache) ReadOrFetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.fresh {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.fetch = fetch
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	e.value = value
	e.fresh = true
	c.mu.Unlock()

	return value, nil
}

// Invalidate marks the key stale. If the key has mounted subscribers the
// remembered fetch runs immediately and the new value is pushed to each of
// them; keys nobody is subscribed to stay stale until the next read. A failed
// refresh is logged and the entry stays stale.
func (c *Cache) Invalidate(ctx context.Context, key Key) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.fresh = false
	fetch := e.fetch
	subs := c.subscribersFor(key)
	c.mu.Unlock()

	if len(subs) == 0 || fetch == nil {
		return
	}

	value, err := fetch(ctx)
	if err != nil {
		c.logger.Warn(ctx, "cache refresh failed", "key", string(key), "error", err)
		return
	}

	c.mu.Lock()
	e.value = value
	e.fresh = true
	c.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Subscribe registers a callback that receives every refreshed value for the
// key until the returned function is called. Views subscribe on mount and
// must unsubscribe on teardown.
func (c *Cache) Subscribe(key Key, fn func(any)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	if c.subscribers[key] == nil {
		c.subscribers[key] = make(map[int]func(any))
	}
	c.subscribers[key][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers[key], id)
		if len(c.subscribers[key]) == 0 {
			delete(c.subscribers, key)
		}
		c.mu.Unlock()
	}
}

// caller must hold c.mu
func (c *Cache) subscribersFor(key Key) []func(any) {
	m := c.subscribers[key]
	if len(m) == 0 {
		return nil
	}
	subs := make([]func(any), 0, len(m))
	for _, fn := range m {
		subs = append(subs, fn)
	}
	return subs
}

// Read is a typed wrapper over Cache.ReadOrFetch for callers that know the
// value type behind a key.
func Read[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.ReadOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	// Key-to-type pairing is static; a mismatch is a programming error.
	return value.(T), nil
}
