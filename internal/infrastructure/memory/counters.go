package memory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type counter struct {
	hits      int
	expiresAt time.Time
}

// CounterStore is a fixed-window rate-limit counter held in process
// memory. Suitable for single-instance deployments and tests; the
// DynamoDB-backed counter is the production implementation.
type CounterStore struct {
	mu       sync.Mutex
	counters map[string]*counter
}

func NewCounterStore() *CounterStore {
	cs := &CounterStore{counters: make(map[string]*counter)}
	go cs.cleanup()
	return cs
}

// Allow records an event for key and reports whether the count within
// the current window stays at or under max. Denied calls bump the
// counter too; with fixed-window buckets that changes nothing, since
// every count past max denies alike and the next bucket starts at zero
// either way.
func (cs *CounterStore) Allow(_ context.Context, key string, window time.Duration, max int) (bool, error) {
	now := time.Now()
	bucket := now.UnixMilli() / window.Milliseconds()
	rowKey := fmt.Sprintf("%s:%d", key, bucket)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.counters[rowKey]
	if !ok || now.After(c.expiresAt) {
		c = &counter{expiresAt: now.Add(2 * window)}
		cs.counters[rowKey] = c
	}
	c.hits++
	return c.hits <= max, nil
}

// cleanup removes expired windows every 5 minutes.
func (cs *CounterStore) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		now := time.Now()
		cs.mu.Lock()
		for k, c := range cs.counters {
			if now.After(c.expiresAt) {
				delete(cs.counters, k)
			}
		}
		cs.mu.Unlock()
	}
}
