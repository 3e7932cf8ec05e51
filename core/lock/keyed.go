package lock

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Keyed provides one mutex per key. Every mutating operation on a single
// event runs under that event's mutex; availability commits additionally hold
// the mutex of every affected participant.
type Keyed struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *Keyed) get(key uuid.UUID) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for key.
func (k *Keyed) Lock(key uuid.UUID) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key.
func (k *Keyed) Unlock(key uuid.UUID) {
	k.get(key).Unlock()
}

// LockAll acquires the mutexes of all keys in sorted order, so that two
// commits touching overlapping participant sets can never deadlock. Returns
// the unlock function.
func (k *Keyed) LockAll(keys []uuid.UUID) func() {
	sorted := make([]uuid.UUID, 0, len(keys))
	seen := make(map[uuid.UUID]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		sorted = append(sorted, key)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	for _, key := range sorted {
		k.Lock(key)
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			k.Unlock(sorted[i])
		}
	}
}

// Shared registries. Events serializes per-event state transitions;
// Participants serializes availability commits per participant.
var (
	Events       = NewKeyed()
	Participants = NewKeyed()
)
