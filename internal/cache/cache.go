package cache

import "sync/atomic"

// Snapshot is a lock-free, read-optimized container
// holding any immutable structure.
type Snapshot[T any] struct{ p atomic.Pointer[T] }

// NewSnapshot returns a Snapshot already holding v.
func NewSnapshot[T any](v T) *Snapshot[T] {
	s := &Snapshot[T]{}
	s.Store(v)
	return s
}

// Load returns the stored value and whether one has been stored yet.
func (s *Snapshot[T]) Load() (T, bool) {
	v := s.p.Load()
	if v == nil {
		var z T
		return z, false
	}
	return *v, true
}

// Store atomically swaps in the new value.
func (s *Snapshot[T]) Store(v T) {
	s.p.Store(&v)
}
