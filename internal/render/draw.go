package render

// Edge runes.
const (
	runeHoriz     = '─'
	runeLeftEnd   = '┌'
	runeRightEnd  = '┐'
	runeJoinBoth  = '┴'
	runeJoinLeft  = '┘'
	runeJoinRight = '└'
)

// Options controls Draw.
type Options struct {
	// OffsetX and OffsetY scroll the layout; cell (OffsetX, OffsetY) of the
	// layout lands at the canvas origin.
	OffsetX, OffsetY int
	// Cursor is the rank drawn highlighted, or -1 for none.
	Cursor int
	// Mono draws without colour.
	Mono bool
}

// Draw paints l onto c.
func Draw(c Canvas, l Layout, opts Options) {
	edge := Style{}
	if !opts.Mono {
		ec := ColorEdge
		edge.Fg = &ec
	}

	for i := range l.Boxes {
		b := &l.Boxes[i]
		drawEdges(c, l, b, opts, edge)
	}
	for i := range l.Boxes {
		b := &l.Boxes[i]
		Text(c, b.X-opts.OffsetX, b.Y-opts.OffsetY, b.Label, nodeStyle(l, b, opts))
	}
}

// drawEdges draws the connector row under b down to its children.
func drawEdges(c Canvas, l Layout, b *Box, opts Options, style Style) {
	if b.Left < 0 && b.Right < 0 {
		return
	}
	y := b.Y + 1 - opts.OffsetY
	mid := b.Center()

	from, to := mid, mid
	if b.Left >= 0 {
		lc := l.Boxes[b.Left].Center()
		from = lc
		set(c, lc, y, runeLeftEnd, opts, style)
	}
	if b.Right >= 0 {
		rc := l.Boxes[b.Right].Center()
		to = rc
		set(c, rc, y, runeRightEnd, opts, style)
	}
	for x := from + 1; x < to; x++ {
		if x != mid {
			set(c, x, y, runeHoriz, opts, style)
		}
	}

	join := runeJoinBoth
	switch {
	case b.Right < 0:
		join = runeJoinLeft
	case b.Left < 0:
		join = runeJoinRight
	}
	set(c, mid, y, join, opts, style)
}

func set(c Canvas, x, y int, r rune, opts Options, style Style) {
	w, h := c.Size()
	x -= opts.OffsetX
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.SetContent(x, y, r, nil, style)
}

func nodeStyle(l Layout, b *Box, opts Options) Style {
	st := Style{}
	if b.Rank == opts.Cursor {
		st.Reverse = true
		st.Bold = true
	}
	if opts.Mono {
		return st
	}
	fg := WeightedColor(BalanceColor(b.Node.Balance()), b.Node.Size(), l.Total)
	if b.Rank == opts.Cursor {
		fg = ColorCursor
	}
	st.Fg = &fg
	return st
}
