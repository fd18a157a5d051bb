package service

import "sync"

// sessionLocks serializes operations per session id. Entries are dropped once unused.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		locks: make(map[string]*sessionLock),
	}
}

func (that *sessionLocks) lock(id string) func() {
	that.mu.Lock()
	lock, ok := that.locks[id]
	if !ok {
		lock = &sessionLock{}
		that.locks[id] = lock
	}
	lock.refs++
	that.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		that.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}
