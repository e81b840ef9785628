// Package keylock serializes work per key (player, encounter) so that request
// handlers and periodic drivers never mutate the same record concurrently.
package keylock

import "sync"

// Locker hands out one mutex per key. Entries are reference counted and dropped
// once nobody holds or waits on them.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty locker
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock blocks until the key is held and returns the matching unlock func
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.locks, key)
			}
			l.mu.Unlock()
		})
	}
}

// Len reports how many keys currently have holders or waiters
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// PlayerKey is the lock key guarding a player's record and active expedition
func PlayerKey(playerID string) string {
	return "player:" + playerID
}

// EncounterKey is the lock key serializing actions on one encounter
func EncounterKey(encounterID string) string {
	return "encounter:" + encounterID
}
