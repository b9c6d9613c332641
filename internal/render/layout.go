package render

import (
	"strconv"

	"github.com/rivo/uniseg"

	"github.com/dshills/idxtree/internal/idxtree"
)

// rowsPerLevel leaves one row between levels for edges.
const rowsPerLevel = 2

// gap is the number of blank columns between adjacent labels.
const gap = 1

// Box is a node placed on the canvas.
type Box struct {
	Node  *idxtree.Node
	Rank  int
	Depth int

	// X is the first column of the label, Width its display width.
	X, Y  int
	Width int
	Label string

	// Parent is the index of the parent box in Layout.Boxes, or -1.
	Parent int
	// Left and Right are child box indexes, or -1.
	Left, Right int
}

// Center returns the column edges attach to.
func (b Box) Center() int {
	return b.X + (b.Width-1)/2
}

// Layout is a positioned tree. Boxes are in rank order.
type Layout struct {
	Boxes  []Box
	Width  int
	Height int
	// Total is the tree length, used to weight colours.
	Total int
}

// Box returns the box for rank i, or nil.
func (l *Layout) Box(i int) *Box {
	if i < 0 || i >= len(l.Boxes) {
		return nil
	}
	return &l.Boxes[i]
}

// Build lays out the tree under root. label names each node; a nil label
// shows the subtree size.
func Build(root *idxtree.Root, label func(*idxtree.Node) string) Layout {
	if label == nil {
		label = sizeLabel
	}
	l := Layout{Total: root.Len()}
	if root.IsEmpty() {
		return l
	}
	l.Boxes = make([]Box, 0, root.Len())

	type frame struct {
		n     *idxtree.Node
		depth int
	}
	// index of each node's box, filled as nodes are visited in order
	index := make(map[*idxtree.Node]int, root.Len())

	var stack []frame
	n, depth := root.Top(), 0
	x := 0
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, frame{n: n, depth: depth})
			n = n.Left()
			depth++
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		text := label(f.n)
		w := uniseg.StringWidth(text)
		if w == 0 {
			text, w = "·", 1
		}
		index[f.n] = len(l.Boxes)
		l.Boxes = append(l.Boxes, Box{
			Node:   f.n,
			Rank:   len(l.Boxes),
			Depth:  f.depth,
			X:      x,
			Y:      f.depth * rowsPerLevel,
			Width:  w,
			Label:  text,
			Parent: -1,
			Left:   -1,
			Right:  -1,
		})
		x += w + gap
		if y := f.depth*rowsPerLevel + 1; y > l.Height {
			l.Height = y
		}

		n, depth = f.n.Right(), f.depth+1
	}
	l.Width = x - gap

	for i := range l.Boxes {
		b := &l.Boxes[i]
		if p := b.Node.Parent(); p != nil {
			b.Parent = index[p]
		}
		if c := b.Node.Left(); c != nil {
			b.Left = index[c]
		}
		if c := b.Node.Right(); c != nil {
			b.Right = index[c]
		}
	}
	return l
}

func sizeLabel(n *idxtree.Node) string {
	return strconv.Itoa(n.Size())
}
