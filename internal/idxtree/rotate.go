package idxtree

// rotateSingle promotes the child of n on the side opposite d into n's place.
// n becomes the promoted node's child on side d and inherits the promoted
// node's former d-side child.
//
//	  n                 c
//	 / \               / \
//	x   c     <=>     n   z      (d == left)
//	   / \           / \
//	  g   z         x   g
//
// Balance factors are repaired in closed form from their prior values.
// The caller is responsible for storing the returned node in n's former slot.
func rotateSingle(n *Node, d dir) *Node {
	o := d.other()
	c := n.child[o]
	g := c.child[d]

	n.child[o] = g
	if g != nil {
		g.parent = n
	}
	c.child[d] = n
	c.parent = n.parent
	n.parent = c

	s := d.sign()
	n.balance += s
	if s*c.balance < 0 {
		n.balance -= c.balance
	}
	c.balance += s
	if s*n.balance > 0 {
		c.balance += n.balance
	}

	n.recount()
	c.recount()

	if debugChecks {
		assertChildren("rotate", n)
		assertChildren("rotate", c)
	}
	return c
}

// rotateDouble lifts the grandchild of n on the inner side into n's place:
// the child opposite d is rotated away from d first, then n rotates toward d.
func rotateDouble(n *Node, d dir) *Node {
	o := d.other()
	n.child[o] = rotateSingle(n.child[o], o)
	return rotateSingle(n, d)
}

// rebalance restores the AVL invariant at a node whose balance factor is +-2.
// A heavy child leaning the opposite way needs a double rotation; a heavy child
// leaning the same way or balanced takes a single rotation.
func rebalance(n *Node) *Node {
	heavy := heavySide(n.balance)
	if n.child[heavy].balance == -heavy.sign() {
		return rotateDouble(n, heavy.other())
	}
	return rotateSingle(n, heavy.other())
}
