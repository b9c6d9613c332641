package sequence

import (
	"fmt"

	"github.com/dshills/idxtree/internal/idxtree"
)

// Sequence is an ordered list of values addressed by 0-based rank.
// All operations run in O(log n).
type Sequence[T any] struct {
	root  idxtree.Root
	pool  *Pool[T]
	stats Stats
}

// Option configures a Sequence.
type Option[T any] func(*Sequence[T])

// WithPool shares an entry pool between sequences.
func WithPool[T any](p *Pool[T]) Option[T] {
	return func(s *Sequence[T]) {
		if p != nil {
			s.pool = p
		}
	}
}

// New creates an empty sequence.
func New[T any](opts ...Option[T]) *Sequence[T] {
	s := &Sequence[T]{}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = NewPool[T]()
	}
	return s
}

// Len returns the number of values.
func (s *Sequence[T]) Len() int {
	return s.root.Len()
}

// Height returns the height of the underlying tree.
func (s *Sequence[T]) Height() int {
	return s.root.Height()
}

// At returns the value at rank i.
func (s *Sequence[T]) At(i int) (T, bool) {
	s.stats.Lookups++
	n := s.root.Get(i)
	if n == nil {
		s.stats.Misses++
		var zero T
		return zero, false
	}
	return entryOf[T](n).value, true
}

// Insert places v at rank i, shifting later values up. i must be in
// [0, Len]; otherwise the error wraps idxtree.ErrIndexOutOfRange.
func (s *Sequence[T]) Insert(i int, v T) error {
	e := s.pool.get(v)
	if err := s.root.Insert(i, &e.node); err != nil {
		s.pool.put(e)
		return fmt.Errorf("sequence insert: %w", err)
	}
	s.stats.Inserts++
	return nil
}

// Append adds v after the last value.
func (s *Sequence[T]) Append(v T) {
	_ = s.Insert(s.Len(), v)
}

// Prepend adds v before the first value.
func (s *Sequence[T]) Prepend(v T) {
	_ = s.Insert(0, v)
}

// Remove deletes and returns the value at rank i.
func (s *Sequence[T]) Remove(i int) (T, bool) {
	n := s.root.Remove(i)
	if n == nil {
		s.stats.Misses++
		var zero T
		return zero, false
	}
	s.stats.Removes++
	e := entryOf[T](n)
	v := e.value
	s.pool.put(e)
	return v, true
}

// Set replaces the value at rank i and returns the previous one. A missing
// rank reports false and changes nothing.
//
// The replacement is a fresh entry swapped into the tree slot of the old one,
// so nodes handed out earlier for rank i no longer belong to the sequence.
func (s *Sequence[T]) Set(i int, v T) (T, bool) {
	e := s.pool.get(v)
	old := s.root.Set(i, &e.node)
	if old == nil {
		s.pool.put(e)
		s.stats.Misses++
		var zero T
		return zero, false
	}
	s.stats.Sets++
	oe := entryOf[T](old)
	ov := oe.value
	s.pool.put(oe)
	return ov, true
}

// Check verifies the structural invariants of the underlying tree.
func (s *Sequence[T]) Check() error {
	return s.root.Check()
}

// Stats returns a snapshot of the operation counters.
func (s *Sequence[T]) Stats() Stats {
	return s.stats
}

// Root exposes the underlying tree for diagnostics and rendering.
// Mutating it directly bypasses the entry pool and the counters.
func (s *Sequence[T]) Root() *idxtree.Root {
	return &s.root
}

// ValueOf returns the value held by a node of this sequence's tree.
// n must have come from Root() of the same sequence.
func (s *Sequence[T]) ValueOf(n *idxtree.Node) T {
	return entryOf[T](n).value
}
