package workload

import (
	"fmt"
	"math/rand"
)

// Kind identifies an operation.
type Kind int

// Operation kinds.
const (
	KindInsert Kind = iota
	KindRemove
	KindSet
	KindGet
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindRemove:
		return "remove"
	case KindSet:
		return "set"
	case KindGet:
		return "get"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Op is a single operation on a sequence.
type Op struct {
	Kind  Kind
	Index int
	// Value is the value inserted or stored. Unused by remove and get.
	Value int
}

// String formats the operation like a call.
func (o Op) String() string {
	switch o.Kind {
	case KindInsert, KindSet:
		return fmt.Sprintf("%s(%d, %d)", o.Kind, o.Index, o.Value)
	default:
		return fmt.Sprintf("%s(%d)", o.Kind, o.Index)
	}
}

// Mix holds relative weights for each kind.
type Mix struct {
	Insert int
	Remove int
	Set    int
	Get    int
}

// DefaultMix favours growth slightly so runs build non-trivial trees.
var DefaultMix = Mix{Insert: 4, Remove: 3, Set: 1, Get: 2}

func (m Mix) total() int {
	return m.Insert + m.Remove + m.Set + m.Get
}

// missOneIn is how often an index is deliberately chosen out of range.
const missOneIn = 32

// Generator produces a reproducible stream of operations.
type Generator struct {
	rng     *rand.Rand
	mix     Mix
	maxSize int
	next    int
}

// NewGenerator creates a generator. Past maxSize values, inserts are turned
// into removals; maxSize <= 0 disables the cap. A mix with no weight falls
// back to DefaultMix.
func NewGenerator(seed int64, mix Mix, maxSize int) *Generator {
	if mix.total() <= 0 || mix.Insert < 0 || mix.Remove < 0 || mix.Set < 0 || mix.Get < 0 {
		mix = DefaultMix
	}
	return &Generator{
		rng:     rand.New(rand.NewSource(seed)),
		mix:     mix,
		maxSize: maxSize,
	}
}

// Next returns an operation for a sequence currently holding length values.
func (g *Generator) Next(length int) Op {
	kind := g.pick()
	if kind == KindInsert && g.maxSize > 0 && length >= g.maxSize {
		kind = KindRemove
	}

	op := Op{Kind: kind}
	if kind == KindInsert || kind == KindSet {
		g.next++
		op.Value = g.next
	}

	// Valid ranks are [0, length] for insert and [0, length) otherwise.
	limit := length
	if kind == KindInsert {
		limit++
	}
	if limit == 0 || g.rng.Intn(missOneIn) == 0 {
		op.Index = limit + g.rng.Intn(3)
		return op
	}
	op.Index = g.rng.Intn(limit)
	return op
}

func (g *Generator) pick() Kind {
	r := g.rng.Intn(g.mix.total())
	if r < g.mix.Insert {
		return KindInsert
	}
	r -= g.mix.Insert
	if r < g.mix.Remove {
		return KindRemove
	}
	r -= g.mix.Remove
	if r < g.mix.Set {
		return KindSet
	}
	return KindGet
}
