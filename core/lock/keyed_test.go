package lock

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyed_SerializesPerKey(t *testing.T) {
	k := NewKeyed()
	key := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock(key)
			counter++
			k.Unlock(key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyed_IndependentKeys(t *testing.T) {
	k := NewKeyed()
	a, b := uuid.New(), uuid.New()

	k.Lock(a)
	// A different key must not block.
	done := make(chan struct{})
	go func() {
		k.Lock(b)
		k.Unlock(b)
		close(done)
	}()
	<-done
	k.Unlock(a)
}

func TestKeyed_LockAllDeduplicates(t *testing.T) {
	k := NewKeyed()
	key := uuid.New()

	// A duplicated key would self-deadlock without deduplication.
	unlock := k.LockAll([]uuid.UUID{key, key, key})
	unlock()

	k.Lock(key)
	k.Unlock(key)
}

func TestKeyed_LockAllNoDeadlockOnOverlap(t *testing.T) {
	k := NewKeyed()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := k.LockAll([]uuid.UUID{a, b})
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := k.LockAll([]uuid.UUID{b, c, a})
			unlock()
		}()
	}
	wg.Wait()
}
