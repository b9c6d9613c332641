package idxtree

import "fmt"

// Insert links n into the tree so that it occupies rank index. Nodes that
// were at index or above shift up by one rank.
//
// n is reset before linking; any state it carried is discarded. It must not
// currently be linked into any tree. Insert returns ErrIndexOutOfRange if
// index is not in [0, Len], leaving the tree unchanged.
func (r *Root) Insert(index int, n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	if index < 0 || index > r.Len() {
		return fmt.Errorf("insert at %d in tree of %d: %w", index, r.Len(), ErrIndexOutOfRange)
	}

	n.reset()
	if r.node == nil {
		r.node = n
		return nil
	}

	p := &r.path
	p.begin("insert", index, r.Len())
	defer p.end()

	// Descend to an empty slot. Ties go left so the new node lands before
	// the node currently at index.
	cur := 0
	for x := r.node; x != nil; {
		pos := cur + sizeOf(x.child[left])
		d := left
		if index > pos {
			d = right
			cur = pos + 1
		}
		p.push(x, d)
		x = x.child[d]
	}

	i := p.len() - 1
	parent, d := p.nodes[i], p.dirs[i]
	parent.child[d] = n
	n.parent = parent

	for _, x := range p.nodes {
		x.size++
	}

	// The parent already had a child on the other side: its height is
	// unchanged and nothing above needs adjusting.
	parent.balance += d.sign()
	if parent.child[d.other()] != nil {
		return nil
	}

	for i--; i >= 0; i-- {
		x := p.nodes[i]
		x.balance += p.dirs[i].sign()

		if x.balance == 0 {
			break
		}
		if x.balance == -1 || x.balance == 1 {
			continue
		}

		// Out of balance toward dirs[i]. If the path keeps going the same
		// way below, one rotation fixes it; a zig-zag needs two.
		heavy := p.dirs[i]
		var top *Node
		if p.dirs[i+1] == heavy {
			top = rotateSingle(x, heavy.other())
		} else {
			top = rotateDouble(x, heavy.other())
		}
		r.replace(p, i, top)
		break
	}

	if debugChecks {
		assertLinks("insert", n)
	}
	return nil
}
