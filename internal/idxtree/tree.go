package idxtree

// Root owns the top node of a tree. It represents an ordered sequence of
// Len() nodes addressed by 0-based rank.
//
// The zero value is an empty tree ready for use. A Root must not be copied
// after first use.
type Root struct {
	node *Node
	path path // scratch descent stack reused across operations
}

// New returns an empty tree.
func New() *Root {
	return &Root{}
}

// Top returns the top node, or nil when the tree is empty.
func (r *Root) Top() *Node {
	return r.node
}

// Len returns the number of nodes in the tree.
func (r *Root) Len() int {
	return sizeOf(r.node)
}

// IsEmpty reports whether the tree has no nodes.
func (r *Root) IsEmpty() bool {
	return r.node == nil
}

// Height returns the number of levels in the tree.
// It follows the taller child at each level, so it runs in O(log n).
func (r *Root) Height() int {
	h := 0
	for n := r.node; n != nil; n = n.child[heavySide(n.balance)] {
		h++
	}
	return h
}

// Get returns the node at the given rank, or nil if index is not in [0, Len).
func (r *Root) Get(index int) *Node {
	return r.find("get", index)
}

// find descends by rank. At each node the rank of the node itself is the
// accumulated offset plus the size of its left subtree.
func (r *Root) find(op string, index int) *Node {
	if index < 0 || index >= r.Len() {
		return nil
	}

	cur := 0
	n := r.node
	for n != nil {
		pos := cur + sizeOf(n.child[left])
		switch {
		case index == pos:
			return n
		case index < pos:
			n = n.child[left]
		default:
			cur = pos + 1
			n = n.child[right]
		}
	}

	// The top size promised this rank but the descent ran out of nodes.
	panic(corrupt(op, index, "descent left the tree at offset %d of %d", cur, r.Len()))
}

// Set replaces the node at the given rank with n and returns the displaced
// node. n takes over the displaced node's children, parent slot, balance and
// size; the displaced node is returned with all links cleared.
//
// If no node occupies index, Set returns nil and the tree is unchanged; it
// never inserts. A nil n is treated the same way. Setting a node onto its
// own slot is a no-op returning n.
func (r *Root) Set(index int, n *Node) *Node {
	if n == nil {
		return nil
	}
	old := r.find("set", index)
	if old == nil || old == n {
		return old
	}

	*n = *old
	for _, c := range n.child {
		if c != nil {
			c.parent = n
		}
	}
	if old.parent == nil {
		r.node = n
	} else {
		old.parent.child[old.side()] = n
	}
	old.detach()

	if debugChecks {
		assertLinks("set", n)
	}
	return old
}

// replace stores n in the slot that held the node at path entry i: the
// parent's child slot recorded on the path, or the root.
func (r *Root) replace(p *path, i int, n *Node) {
	if i == 0 {
		r.node = n
		return
	}
	p.nodes[i-1].child[p.dirs[i-1]] = n
}
