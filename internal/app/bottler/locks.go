package bottler

import (
	"sync"

	"github.com/google/uuid"
)

// playerLocks serialises the handling of each player's packets. Different players never wait on each other.
type playerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*playerLock
}

type playerLock struct {
	sync.Mutex
	// holders counts goroutines holding or waiting for the lock, guarded by playerLocks.mu
	holders int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[uuid.UUID]*playerLock)}
}

// lock blocks until playerID's lock is held and returns the function releasing it.
func (l *playerLocks) lock(playerID uuid.UUID) func() {
	l.mu.Lock()
	pl, ok := l.locks[playerID]
	if !ok {
		pl = &playerLock{}
		l.locks[playerID] = pl
	}
	pl.holders++
	l.mu.Unlock()

	pl.Lock()

	return func() {
		pl.Unlock()

		l.mu.Lock()
		defer l.mu.Unlock()

		pl.holders--
		if pl.holders == 0 {
			delete(l.locks, playerID)
		}
	}
}
