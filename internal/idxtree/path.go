package idxtree

import "math"

// MaxHeight is the tallest path a valid tree can produce. An AVL tree of
// height 92 needs more than 2^63 nodes, so a longer path means corruption.
const MaxHeight = 92

// HeightBound returns the AVL height limit 1.45*log2(n+2) for a tree of n
// nodes, rounded down.
func HeightBound(n int) int {
	if n < 0 {
		n = 0
	}
	return int(1.45 * math.Log2(float64(n)+2))
}

// path records the nodes visited by a descent and the direction taken at
// each. nodes[0] is the top of the tree; dirs[i] is the slot of nodes[i]
// that leads to nodes[i+1].
type path struct {
	nodes []*Node
	dirs  []dir

	// context for fault reports
	op    string
	index int
}

// begin empties the path and sizes it for a tree of the given length.
func (p *path) begin(op string, index, size int) {
	want := HeightBound(size) + 2
	if cap(p.nodes) < want {
		p.nodes = make([]*Node, 0, want)
		p.dirs = make([]dir, 0, want)
	}
	p.nodes = p.nodes[:0]
	p.dirs = p.dirs[:0]
	p.op = op
	p.index = index
}

// end drops node references so the Root does not pin detached nodes.
func (p *path) end() {
	clear(p.nodes)
	p.nodes = p.nodes[:0]
	p.dirs = p.dirs[:0]
}

// push appends a visited node and the direction leaving it.
func (p *path) push(n *Node, d dir) {
	if len(p.nodes) >= MaxHeight {
		panic(corrupt(p.op, p.index, "path exceeds %d levels", MaxHeight))
	}
	p.nodes = append(p.nodes, n)
	p.dirs = append(p.dirs, d)
}

// pop removes the last entry.
func (p *path) pop() {
	last := len(p.nodes) - 1
	p.nodes[last] = nil
	p.nodes = p.nodes[:last]
	p.dirs = p.dirs[:last]
}

// len returns the number of recorded entries.
func (p *path) len() int {
	return len(p.nodes)
}
