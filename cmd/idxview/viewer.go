package main

import (
	"fmt"
	"math/rand"

	"github.com/dshills/idxtree/internal/idxtree"
	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/render"
	"github.com/dshills/idxtree/internal/sequence"
)

const keyHelp = "a append  f front  i insert  d delete  s set  r random  ←→ rank  ↑ parent  ↓ child  q quit"

// screen is what the viewer draws on and reads events from.
type screen interface {
	render.Canvas
	Clear()
	Show()
	PollEvent() render.Event
}

// viewer holds the interactive state.
type viewer struct {
	seq    *sequence.Sequence[int]
	rng    *rand.Rand
	log    *logging.Logger
	cursor int
	next   int
	mono   bool

	offsetX, offsetY int
	message          string
}

func newViewer(seed int64, initial int, log *logging.Logger) *viewer {
	if log == nil {
		log = logging.Null()
	}
	v := &viewer{
		seq: sequence.New[int](),
		rng: rand.New(rand.NewSource(seed)),
		log: log.WithComponent("viewer"),
	}
	for i := 0; i < initial; i++ {
		v.seq.Append(v.value())
	}
	return v
}

// value returns the next label value.
func (v *viewer) value() int {
	v.next++
	return v.next
}

// loop draws and handles events until the user quits.
func (v *viewer) loop(s screen) {
	for {
		v.draw(s)
		ev := s.PollEvent()
		if ev.Type == render.EventNone {
			continue
		}
		if v.handle(ev) {
			return
		}
	}
}

// handle applies one event and reports whether the viewer should quit.
func (v *viewer) handle(ev render.Event) bool {
	if ev.Type != render.EventKey {
		return false
	}
	v.message = ""

	switch ev.Key {
	case render.KeyEscape, render.KeyCtrlC:
		return true
	case render.KeyLeft:
		v.move(v.cursor - 1)
	case render.KeyRight:
		v.move(v.cursor + 1)
	case render.KeyHome:
		v.move(0)
	case render.KeyEnd:
		v.move(v.seq.Len() - 1)
	case render.KeyUp:
		v.climb()
	case render.KeyDown:
		v.descend()
	case render.KeyRune:
		return v.command(ev.Rune)
	}
	return false
}

func (v *viewer) command(r rune) bool {
	switch r {
	case 'q':
		return true
	case 'a':
		v.insert(v.seq.Len())
	case 'f':
		v.insert(0)
	case 'i':
		v.insert(min(v.cursor, v.seq.Len()))
	case 'r':
		v.insert(v.rng.Intn(v.seq.Len() + 1))
	case 'd':
		if val, ok := v.seq.Remove(v.cursor); ok {
			v.message = fmt.Sprintf("removed %d from rank %d", val, v.cursor)
			v.log.Debug("remove(%d) = %d", v.cursor, val)
		} else {
			v.message = "nothing to remove"
		}
		v.move(v.cursor)
	case 's':
		val := v.value()
		if old, ok := v.seq.Set(v.cursor, val); ok {
			v.message = fmt.Sprintf("rank %d: %d -> %d", v.cursor, old, val)
			v.log.Debug("set(%d, %d) = %d", v.cursor, val, old)
		} else {
			v.message = "nothing to replace"
		}
	}
	return false
}

func (v *viewer) insert(i int) {
	val := v.value()
	if err := v.seq.Insert(i, val); err != nil {
		v.message = err.Error()
		return
	}
	v.log.Debug("insert(%d, %d)", i, val)
	v.message = fmt.Sprintf("inserted %d at rank %d", val, i)
	v.cursor = i
}

// move places the cursor on rank i, clamped to the sequence.
func (v *viewer) move(i int) {
	v.cursor = max(0, min(i, v.seq.Len()-1))
}

// climb moves the cursor to its parent node.
func (v *viewer) climb() {
	n := v.seq.Root().Get(v.cursor)
	if n == nil || n.Parent() == nil {
		return
	}
	v.cursor = rankOf(n.Parent())
}

// descend moves the cursor to a child, preferring the left one.
func (v *viewer) descend() {
	n := v.seq.Root().Get(v.cursor)
	if n == nil {
		return
	}
	child := n.Left()
	if child == nil {
		child = n.Right()
	}
	if child != nil {
		v.cursor = rankOf(child)
	}
}

// rankOf computes the rank of n by climbing to the top.
func rankOf(n *idxtree.Node) int {
	rank := 0
	if l := n.Left(); l != nil {
		rank = l.Size()
	}
	for p := n.Parent(); p != nil; n, p = p, p.Parent() {
		if p.Right() == n {
			rank++
			if l := p.Left(); l != nil {
				rank += l.Size()
			}
		}
	}
	return rank
}

// draw renders the tree, scrolled so the cursor is visible, plus a status
// line.
func (v *viewer) draw(s screen) {
	s.Clear()
	w, h := s.Size()
	treeRows := max(h-2, 1)

	layout := render.Build(v.seq.Root(), func(n *idxtree.Node) string {
		return fmt.Sprint(v.seq.ValueOf(n))
	})
	if b := layout.Box(v.cursor); b != nil {
		v.scrollTo(b, w, treeRows)
	}
	render.Draw(clip{s, treeRows}, layout, render.Options{
		OffsetX: v.offsetX,
		OffsetY: v.offsetY,
		Cursor:  v.cursor,
		Mono:    v.mono,
	})

	render.Text(s, 0, h-2, v.statusLine(), render.Style{Bold: true})
	help := keyHelp
	if v.message != "" {
		help = v.message
	}
	render.Text(s, 0, h-1, help, render.Style{})
	s.Show()
}

// scrollTo adjusts the offsets so b lies inside a w by rows window.
func (v *viewer) scrollTo(b *render.Box, w, rows int) {
	if b.X < v.offsetX {
		v.offsetX = b.X
	} else if b.X+b.Width > v.offsetX+w {
		v.offsetX = b.X + b.Width - w
	}
	if b.Y < v.offsetY {
		v.offsetY = b.Y
	} else if b.Y >= v.offsetY+rows {
		v.offsetY = b.Y - rows + 1
	}
}

func (v *viewer) statusLine() string {
	n := v.seq.Len()
	check := "ok"
	if err := v.seq.Check(); err != nil {
		check = err.Error()
	}
	line := fmt.Sprintf("len=%d height=%d bound=%d check=%s", n, v.seq.Height(), idxtree.HeightBound(n), check)
	if val, ok := v.seq.At(v.cursor); ok {
		line += fmt.Sprintf("  cursor=%d value=%d", v.cursor, val)
	}
	return line
}

// clip limits drawing to the top rows of a canvas.
type clip struct {
	render.Canvas
	rows int
}

func (c clip) Size() (int, int) {
	w, h := c.Canvas.Size()
	return w, min(h, c.rows)
}

func (c clip) SetContent(x, y int, primary rune, combining []rune, style render.Style) {
	if y < c.rows {
		c.Canvas.SetContent(x, y, primary, combining, style)
	}
}
