package idxtree

import (
	"strings"
	"testing"
	"unsafe"
)

// item is a caller record embedding the intrusive node.
type item struct {
	Node
	name string
}

func newItem(name string) *item {
	return &item{name: name}
}

// itemOf maps a node back to its item; Node is the first field.
func itemOf(n *Node) *item {
	if n == nil {
		return nil
	}
	return (*item)(unsafe.Pointer(n))
}

// names returns the in-order names of the tree.
func names(r *Root) []string {
	var out []string
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		walk(n.child[left])
		out = append(out, itemOf(n).name)
		walk(n.child[right])
	}
	walk(r.node)
	return out
}

// joined returns the in-order names as a comma separated string.
func joined(r *Root) string {
	return strings.Join(names(r), ",")
}

// trueHeight measures the subtree height by walking it.
func trueHeight(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + max(trueHeight(n.child[left]), trueHeight(n.child[right]))
}

// mustCheck fails the test if the tree violates an invariant.
func mustCheck(t *testing.T, r *Root) {
	t.Helper()
	if err := r.Check(); err != nil {
		t.Fatalf("Check() = %v", err)
	}
}

// mk links a hand-built subtree: n gets the given children and balance, and
// its size is recounted. Children must already be built.
func mk(n *item, balance int8, l, r *item) *item {
	n.Node = Node{balance: balance}
	if l != nil {
		n.child[left] = &l.Node
		l.parent = &n.Node
	}
	if r != nil {
		n.child[right] = &r.Node
		r.parent = &n.Node
	}
	n.recount()
	return n
}

// leaf builds a single-node subtree.
func leaf(name string) *item {
	return mk(newItem(name), 0, nil, nil)
}
