package escrow

import (
	"sync"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

// dealLocks linearizes the operations on a single deal while letting
// operations on different deals run in parallel.
type dealLocks struct {
	mu    sync.Mutex
	locks map[domain.DealID]*dealLock
}

type dealLock struct {
	sync.Mutex
	refs int
}

func newDealLocks() *dealLocks {
	return &dealLocks{locks: make(map[domain.DealID]*dealLock)}
}

// lock blocks until the lock for the given deal is acquired and returns the
// function to release it.
func (l *dealLocks) lock(id domain.DealID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &dealLock{}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs <= 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
