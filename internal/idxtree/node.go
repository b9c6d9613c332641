package idxtree

// dir selects a child slot. left holds lower ranks, right higher ranks.
type dir uint8

const (
	left  dir = 0
	right dir = 1
)

// other returns the opposite direction.
func (d dir) other() dir {
	return d ^ 1
}

// sign returns -1 for left and +1 for right, the balance contribution of
// a height change on that side.
func (d dir) sign() int8 {
	if d == right {
		return 1
	}
	return -1
}

// heavySide returns the side a balance factor leans toward.
// A balanced node reports left.
func heavySide(balance int8) dir {
	if balance > 0 {
		return right
	}
	return left
}

// Node is the intrusive tree record. Embed it in a caller-owned struct.
//
// The fields are owned by the tree. Callers must not modify a Node while it
// is linked into a Root; the accessors below exist for diagnostics only.
type Node struct {
	balance int8     // height(right) - height(left)
	child   [2]*Node // owned children, indexed by dir
	parent  *Node    // back-reference, never owning
	size    int      // nodes in this subtree including this one
}

// Left returns the left child, or nil.
func (n *Node) Left() *Node {
	return n.child[left]
}

// Right returns the right child, or nil.
func (n *Node) Right() *Node {
	return n.child[right]
}

// Parent returns the parent node, or nil for the top node or a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Balance returns the AVL balance factor: right height minus left height.
func (n *Node) Balance() int {
	return int(n.balance)
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	return n.size
}

// reset prepares a node for insertion as a leaf.
func (n *Node) reset() {
	*n = Node{size: 1}
}

// detach clears every link so a node handed back to the caller carries no
// references into the tree.
func (n *Node) detach() {
	*n = Node{}
}

// sizeOf returns the subtree size of n; an absent child counts as zero.
func sizeOf(n *Node) int {
	if n == nil {
		return 0
	}
	return n.size
}

// recount recomputes the subtree size from the children.
// It never touches the balance factor.
func (n *Node) recount() {
	n.size = 1 + sizeOf(n.child[left]) + sizeOf(n.child[right])
}

// side returns which child slot of its parent n occupies.
func (n *Node) side() dir {
	if n.parent.child[left] == n {
		return left
	}
	return right
}
