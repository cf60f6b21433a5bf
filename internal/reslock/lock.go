package reslock

import (
	"context"
	"errors"
	"sync"
)

// Locker serializes event processing per resource id. Acquire blocks until
// the key's lock is held or ctx is done; the returned release function must
// be called exactly once. Locks for different keys never contend.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

var ErrEmptyKey = errors.New("lock key is empty")

type localLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker returns an in-process keyed lock for single-instance
// deployments.
func NewLocalLocker() Locker {
	return &localLocker{entries: make(map[string]*lockEntry)}
}

func (l *localLocker) Acquire(ctx context.Context, key string) (func(), error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			l.put(key, entry)
		}, nil
	case <-ctx.Done():
		l.put(key, entry)
		return nil, ctx.Err()
	}
}

func (l *localLocker) put(key string, entry *lockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
