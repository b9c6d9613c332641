package sequence

import "sync"

// Locked serializes access to a Sequence with a single mutex, so it can be
// shared between goroutines.
type Locked[T any] struct {
	mu  sync.Mutex
	seq *Sequence[T]
}

// NewLocked wraps seq. The caller must not use seq directly afterwards.
func NewLocked[T any](seq *Sequence[T]) *Locked[T] {
	return &Locked[T]{seq: seq}
}

// Len returns the number of values.
func (l *Locked[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Len()
}

// At returns the value at rank i.
func (l *Locked[T]) At(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.At(i)
}

// Insert places v at rank i.
func (l *Locked[T]) Insert(i int, v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Insert(i, v)
}

// Append adds v after the last value.
func (l *Locked[T]) Append(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq.Append(v)
}

// Remove deletes and returns the value at rank i.
func (l *Locked[T]) Remove(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Remove(i)
}

// Set replaces the value at rank i and returns the previous one.
func (l *Locked[T]) Set(i int, v T) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Set(i, v)
}

// Check verifies the structural invariants.
func (l *Locked[T]) Check() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Check()
}

// Stats returns a snapshot of the operation counters.
func (l *Locked[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Stats()
}

// Do runs fn with exclusive access to the sequence, for compound updates
// such as read-modify-write of a rank.
func (l *Locked[T]) Do(fn func(s *Sequence[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.seq)
}
