package realtime

import (
	"log"
	"sync"
)

// Factory opens a backend subscription and returns its teardown function.
type Factory func() (teardown func(), err error)

// Registry tracks live push subscriptions keyed by logical resource id. It
// guarantees at most one live subscription per key: registering a key that is
// already live tears the old subscription down before the new factory runs.
// The registry is the only component that opens or closes subscriptions.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*handle
	nextID  uint64
}

type handle struct {
	id       uint64
	teardown func()
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*handle)}
}

// Subscribe replaces any live handle for key, invokes factory, and tracks the
// new subscription. The returned cancel function is idempotent and stays safe
// to call after the handle has been superseded by a later Subscribe.
func (r *Registry) Subscribe(key string, factory Factory) (func(), error) {
	r.mu.Lock()
	prior := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()

	if prior != nil {
		activeListeners.Dec()
		runTeardown(key, prior.teardown)
	}

	teardown, err := factory()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.nextID++
	entry := &handle{id: r.nextID, teardown: teardown}
	r.handles[key] = entry
	r.mu.Unlock()
	activeListeners.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			current, ok := r.handles[key]
			if ok && current.id == entry.id {
				delete(r.handles, key)
			} else {
				// Already superseded or removed; teardown of this
				// handle has run.
				r.mu.Unlock()
				return
			}
			r.mu.Unlock()
			activeListeners.Dec()
			runTeardown(key, entry.teardown)
		})
	}
	return cancel, nil
}

// Unsubscribe tears down and removes the handle for key; no-op when absent.
func (r *Registry) Unsubscribe(key string) {
	r.mu.Lock()
	entry, ok := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()

	if ok {
		activeListeners.Dec()
		runTeardown(key, entry.teardown)
	}
}

// UnsubscribeAll tears down every tracked handle.
func (r *Registry) UnsubscribeAll() {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[string]*handle)
	r.mu.Unlock()

	for key, entry := range handles {
		activeListeners.Dec()
		runTeardown(key, entry.teardown)
	}
}

func (r *Registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[key]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// A failing teardown must not cascade into consumer-visible failure.
func runTeardown(key string, teardown func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("realtime: teardown for %q panicked: %v", key, rec)
		}
	}()
	teardown()
}
