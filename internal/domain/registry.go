package domain

import (
	"fmt"
	"sync"
)

// LockRegistry maps streams to their lock bounds. It is safe for concurrent use;
// readers always observe whole entries.
type LockRegistry struct {
	mu    sync.RWMutex
	locks map[Stream]Lock
}

// NewLockRegistry creates an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[Stream]Lock)}
}

// AddLock inserts or replaces the lock for stream. The caller clamps upper to
// the stream max beforehand; device limits are not re-validated here.
func (r *LockRegistry) AddLock(stream Stream, lower, upper int) error {
	if !stream.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedStream, stream)
	}
	lock := Lock{Lower: lower, Upper: upper}
	if err := lock.Validate(); err != nil {
		return fmt.Errorf("lock %s [%d,%d]: %w", stream, lower, upper, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks[stream] = lock
	return nil
}

// RemoveLock deletes the lock for stream if present.
func (r *LockRegistry) RemoveLock(stream Stream) error {
	if !stream.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedStream, stream)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, stream)
	return nil
}

// Locks returns a copy of the current locks.
func (r *LockRegistry) Locks() map[Stream]Lock {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Stream]Lock, len(r.locks))
	for k, v := range r.locks {
		out[k] = v
	}
	return out
}

// Get returns the lock for stream.
func (r *LockRegistry) Get(stream Stream) (Lock, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locks[stream]
	return l, ok
}

func (r *LockRegistry) Contains(stream Stream) bool {
	_, ok := r.Get(stream)
	return ok
}

func (r *LockRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.locks)
}
