package keylock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/expedition-api/internal/pkg/keylock"
)

func TestLockSerializesSameKey(t *testing.T) {
	locker := keylock.New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("player_1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locker.Len())
}

func TestUnlockIsIdempotent(t *testing.T) {
	locker := keylock.New()
	unlock := locker.Lock("a")
	unlock()
	unlock()

	assert.Equal(t, 0, locker.Len())
	relock := locker.Lock("a")
	relock()
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	locker := keylock.New()
	unlockA := locker.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
}
