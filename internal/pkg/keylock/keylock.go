// Package keylock provides mutual exclusion scoped to a key.
//
// Holders of different keys never contend with each other; holders of the same
// key are serialized. Acquisition honours context cancellation so callers can
// bound how long they wait.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	sem  chan struct{}
	refs int
}

type Locker[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

func New[K comparable]() *Locker[K] {
	return &Locker[K]{locks: make(map[K]*entry)}
}

// Lock blocks until the key is free or ctx is done. The returned function
// releases the lock and must be called exactly once.
func (l *Locker[K]) Lock(ctx context.Context, key K) (func(), error) {
	e := l.acquireRef(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseRef(key, e)
		})
	}, nil
}

// Len reports how many keys are currently held or waited on.
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker[K]) acquireRef(key K) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker[K]) releaseRef(key K, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
