package daily

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// keyedMutex serializes operations sharing a logical key. Entries are
// reference-counted and removed as soon as no operation holds or waits for
// the key, so the map never accumulates state beyond in-flight work.
type keyedMutex struct {
	mu   sync.Mutex
	keys map[string]*keyEntry
}

type keyEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{keys: make(map[string]*keyEntry)}
}

// Lock acquires the key, blocking while another operation holds it. It
// respects context cancellation while waiting.
func (m *keyedMutex) Lock(ctx context.Context, key string) error {
	m.mu.Lock()
	e, ok := m.keys[key]
	if !ok {
		e = &keyEntry{sem: semaphore.NewWeighted(1)}
		m.keys[key] = e
	}
	e.refs++
	m.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		m.release(key, e)
		return err
	}
	return nil
}

// Unlock releases the key. It must be called exactly once per successful Lock.
func (m *keyedMutex) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.keys[key]
	m.mu.Unlock()
	if !ok {
		return
	}
	e.sem.Release(1)
	m.release(key, e)
}

func (m *keyedMutex) release(key string, e *keyEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.keys, key)
	}
}

// inFlight reports how many keys currently have holders or waiters.
func (m *keyedMutex) inFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}
