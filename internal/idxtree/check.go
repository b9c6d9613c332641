package idxtree

// Check verifies every structural invariant of the tree: parent
// back-references match child slots, each size equals one plus the sizes of
// the children, and each balance factor equals the real height difference and
// lies in [-1, 1]. It returns a *CorruptionError describing the first
// violation found, or nil.
//
// Check visits every node and is intended for tests and verification tools.
func (r *Root) Check() error {
	if r.node == nil {
		return nil
	}
	if r.node.parent != nil {
		return corrupt("check", -1, "top node has a parent")
	}
	_, err := checkSubtree(r.node, 0)
	return err
}

// checkSubtree verifies the subtree at n, whose lowest rank is base, and
// returns its height.
func checkSubtree(n *Node, base int) (int, error) {
	if n == nil {
		return 0, nil
	}
	rank := base + sizeOf(n.child[left])

	for _, c := range n.child {
		if c != nil && c.parent != n {
			return 0, corrupt("check", rank, "child does not point back to its parent")
		}
	}

	lh, err := checkSubtree(n.child[left], base)
	if err != nil {
		return 0, err
	}
	rh, err := checkSubtree(n.child[right], rank+1)
	if err != nil {
		return 0, err
	}

	if want := 1 + sizeOf(n.child[left]) + sizeOf(n.child[right]); n.size != want {
		return 0, corrupt("check", rank, "size %d, want %d", n.size, want)
	}
	if int(n.balance) != rh-lh {
		return 0, corrupt("check", rank, "balance %d, subtree heights %d/%d", n.balance, lh, rh)
	}
	if n.balance < -1 || n.balance > 1 {
		return 0, corrupt("check", rank, "balance %d out of range", n.balance)
	}
	return 1 + max(lh, rh), nil
}

// assertLinks checks the local invariants around n right after a splice:
// its children point back to it, its parent holds it in a child slot, and its
// size matches its children. Only called when debugChecks is set.
func assertLinks(op string, n *Node) {
	assertChildren(op, n)
	if p := n.parent; p != nil && p.child[left] != n && p.child[right] != n {
		panic(corrupt(op, -1, "parent does not hold spliced node"))
	}
}

// assertChildren is assertLinks without the parent check, for use inside a
// rotation before the caller has stored the result in the parent slot.
func assertChildren(op string, n *Node) {
	for _, c := range n.child {
		if c != nil && c.parent != n {
			panic(corrupt(op, -1, "child does not point back to spliced node"))
		}
	}
	if want := 1 + sizeOf(n.child[left]) + sizeOf(n.child[right]); n.size != want {
		panic(corrupt(op, -1, "spliced node size %d, want %d", n.size, want))
	}
}
