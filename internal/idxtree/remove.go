package idxtree

// Remove unlinks the node at the given rank and returns it with all links
// cleared. Nodes above index shift down by one rank. Remove returns nil and
// leaves the tree unchanged if index is not in [0, Len).
//
// A node with children is replaced by its nearest in-order neighbour on its
// heavier side (the predecessor when balanced), so the structural change is
// always the removal of a node with at most one child.
func (r *Root) Remove(index int) *Node {
	if index < 0 || index >= r.Len() {
		return nil
	}

	p := &r.path
	p.begin("remove", index, r.Len())
	defer p.end()

	cur := 0
	x := r.node
	for {
		if x == nil {
			panic(corrupt("remove", index, "descent left the tree at offset %d of %d", cur, r.Len()))
		}
		pos := cur + sizeOf(x.child[left])
		if index == pos {
			break
		}
		d := left
		if index > pos {
			d = right
			cur = pos + 1
		}
		p.push(x, d)
		x = x.child[d]
	}

	for _, a := range p.nodes {
		a.size--
	}

	// x sits at path entry at. The replacement comes from its heavy side.
	at := p.len()
	d := heavySide(x.balance)
	p.push(x, d)

	repl := x.child[d]
	if repl == nil {
		if x.child[d.other()] != nil {
			panic(corrupt("remove", index, "node leans %d but its only child is on the light side", x.balance))
		}
		// x is a leaf: its slot simply empties and rebalancing starts at
		// its parent.
		r.replace(p, at, nil)
		p.pop()
	} else {
		o := d.other()
		for repl.child[o] != nil {
			p.push(repl, o)
			repl = repl.child[o]
		}

		// Unhook repl, handing its single child (always on side d) to its
		// former parent.
		last := p.len() - 1
		lp := p.nodes[last]
		lp.child[p.dirs[last]] = repl.child[d]
		if c := repl.child[d]; c != nil {
			c.parent = lp
		}
		for _, a := range p.nodes[at+1:] {
			a.size--
		}

		// repl assumes x's structural position.
		repl.child = x.child
		for _, c := range repl.child {
			if c != nil {
				c.parent = repl
			}
		}
		repl.balance = x.balance
		repl.size = x.size - 1
		repl.parent = x.parent
		r.replace(p, at, repl)
		p.nodes[at] = repl

		if debugChecks {
			assertLinks("remove", repl)
			if lp != x {
				assertLinks("remove", lp)
			}
		}
	}

	// Walk back up. The side recorded at each entry lost height; a balance
	// that becomes nonzero means the subtree kept its height.
	for i := p.len() - 1; i >= 0; i-- {
		y := p.nodes[i]
		y.balance -= p.dirs[i].sign()

		if y.balance < -1 || y.balance > 1 {
			y = rebalance(y)
			r.replace(p, i, y)
			p.nodes[i] = y
		}
		if y.balance != 0 {
			break
		}
	}

	x.detach()
	return x
}
