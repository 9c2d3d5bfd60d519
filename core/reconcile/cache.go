package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// BaselineSource loads the existing records keyed by identity.
type BaselineSource[T any] interface {
	LoadBaseline(ctx context.Context) (map[string]*T, error)
}

// BaselineFunc adapts a function to BaselineSource.
type BaselineFunc[T any] func(ctx context.Context) (map[string]*T, error)

// LoadBaseline calls f.
func (f BaselineFunc[T]) LoadBaseline(ctx context.Context) (map[string]*T, error) {
	return f(ctx)
}

// baselineKey is the single singleflight key; one cache wraps one source.
const baselineKey = "baseline"

// BaselineCache memoizes a BaselineSource for a TTL. Concurrent misses share
// one load. A zero TTL disables caching but still collapses concurrent loads.
type BaselineCache[T any] struct {
	source BaselineSource[T]
	ttl    time.Duration

	mu    sync.RWMutex
	data  map[string]*T
	built time.Time
	sf    singleflight.Group
}

// NewBaselineCache wraps source.
func NewBaselineCache[T any](source BaselineSource[T], ttl time.Duration) *BaselineCache[T] {
	return &BaselineCache[T]{source: source, ttl: ttl}
}

func (c *BaselineCache[T]) fresh() (map[string]*T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || c.ttl <= 0 || time.Since(c.built) > c.ttl {
		return nil, false
	}
	return c.data, true
}

// LoadBaseline returns the cached baseline or loads a new one. The returned
// map is shared between callers and must not be modified.
func (c *BaselineCache[T]) LoadBaseline(ctx context.Context) (map[string]*T, error) {
	if data, ok := c.fresh(); ok {
		return data, nil
	}

	result, err, _ := c.sf.Do(baselineKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if data, ok := c.fresh(); ok {
			return data, nil
		}

		data, err := c.source.LoadBaseline(ctx)
		if err != nil {
			return nil, err
		}
		if data == nil {
			data = map[string]*T{}
		}

		c.mu.Lock()
		c.data = data
		c.built = time.Now()
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]*T), nil
}

// Invalidate drops the cached baseline, typically after a job wrote to the
// target store.
func (c *BaselineCache[T]) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()
}
