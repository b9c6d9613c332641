package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Style is how a cell is drawn. A nil colour uses the terminal default.
type Style struct {
	Fg, Bg  *colorful.Color
	Bold    bool
	Reverse bool
}

// Canvas is a grid of character cells.
type Canvas interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style Style)
}

// Text draws s at (x, y) one grapheme cluster at a time and returns the
// column after the last cluster. Text past the canvas edge is clipped.
func Text(c Canvas, x, y int, s string, style Style) int {
	w, h := c.Size()
	if y < 0 || y >= h {
		return x + uniseg.StringWidth(s)
	}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		width := g.Width()
		if x >= 0 && x+width <= w {
			c.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += width
	}
	return x
}

// Cell is one cell of a Grid.
type Cell struct {
	Rune      rune
	Combining []rune
	Style     Style
}

// Grid is an in-memory Canvas.
type Grid struct {
	width, height int
	cells         []Cell
}

// NewGrid creates a blank grid.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, cells: make([]Cell, width*height)}
	g.Clear()
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// SetContent sets a cell. Out-of-range coordinates are ignored.
func (g *Grid) SetContent(x, y int, primary rune, combining []rune, style Style) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = Cell{Rune: primary, Combining: combining, Style: style}
}

// Cell returns the cell at (x, y).
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Cell{Rune: ' '}
	}
	return g.cells[y*g.width+x]
}

// Clear fills the grid with spaces.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{Rune: ' '}
	}
}

// Line returns row y as a string with trailing spaces removed.
func (g *Grid) Line(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < g.width; x++ {
		c := g.cells[y*g.width+x]
		sb.WriteRune(c.Rune)
		for _, r := range c.Combining {
			sb.WriteRune(r)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// String returns all rows joined by newlines.
func (g *Grid) String() string {
	lines := make([]string, g.height)
	for y := range lines {
		lines[y] = g.Line(y)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
