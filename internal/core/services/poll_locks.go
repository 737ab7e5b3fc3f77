package services

import (
	"sync"

	"github.com/google/uuid"
)

// pollLocks serializes load-mutate-save per poll id. Entries are
// reference-counted and removed once the last holder releases, so the map
// does not grow with the number of polls ever touched. Operations on
// different polls never contend.
type pollLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*pollLock
}

type pollLock struct {
	sync.Mutex
	refs int
}

func newPollLocks() *pollLocks {
	return &pollLocks{locks: make(map[uuid.UUID]*pollLock)}
}

// lock blocks until the per-poll lock is held and returns the release func.
func (l *pollLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &pollLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
