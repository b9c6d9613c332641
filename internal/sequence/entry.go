package sequence

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/dshills/idxtree/internal/idxtree"
)

// entry is the record linked into the tree. node must stay the first field:
// entryOf recovers the entry from the address of its node.
type entry[T any] struct {
	node  idxtree.Node
	value T
}

// entryOf maps a node handed out by the tree back to its entry.
func entryOf[T any](n *idxtree.Node) *entry[T] {
	return (*entry[T])(unsafe.Pointer(n))
}

// Pool recycles entries between sequences of the same element type.
// It uses sync.Pool, so it is safe to share across goroutines.
type Pool[T any] struct {
	pool      sync.Pool
	allocated atomic.Int64
}

// NewPool creates an entry pool.
func NewPool[T any]() *Pool[T] {
	p := &Pool[T]{}
	p.pool.New = func() any {
		p.allocated.Add(1)
		return new(entry[T])
	}
	return p
}

// get returns an entry holding v. The node is left for Insert or Set to
// initialise.
func (p *Pool[T]) get(v T) *entry[T] {
	e := p.pool.Get().(*entry[T])
	e.value = v
	return e
}

// put returns an entry to the pool. The entry must already be unlinked.
func (p *Pool[T]) put(e *entry[T]) {
	if e == nil {
		return
	}
	// Clear the value to allow GC of anything it references
	var zero T
	e.value = zero
	p.pool.Put(e)
}

// Allocated returns how many entries the pool has had to allocate.
func (p *Pool[T]) Allocated() int64 {
	return p.allocated.Load()
}
