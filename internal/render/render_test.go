package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/idxtree/internal/idxtree"
	"github.com/dshills/idxtree/internal/sequence"
)

func letters(n int) *sequence.Sequence[string] {
	s := sequence.New[string]()
	for i := 0; i < n; i++ {
		s.Append(string(rune('a' + i)))
	}
	return s
}

func layoutOf(s *sequence.Sequence[string]) Layout {
	return Build(s.Root(), s.ValueOf)
}

func TestBuildEmpty(t *testing.T) {
	l := Build(idxtree.New(), nil)
	if len(l.Boxes) != 0 || l.Width != 0 || l.Height != 0 {
		t.Errorf("layout = %+v", l)
	}
	if l.Box(0) != nil {
		t.Error("Box(0) on empty layout")
	}
}

func TestBuildPerfectTree(t *testing.T) {
	l := layoutOf(letters(7))

	if l.Width != 13 || l.Height != 5 {
		t.Fatalf("size = %dx%d, want 13x5", l.Width, l.Height)
	}
	wantDepth := []int{2, 1, 2, 0, 2, 1, 2}
	for i, b := range l.Boxes {
		if b.Rank != i {
			t.Errorf("box %d has rank %d", i, b.Rank)
		}
		if b.X != 2*i {
			t.Errorf("rank %d at x=%d, want %d", i, b.X, 2*i)
		}
		if b.Depth != wantDepth[i] || b.Y != 2*wantDepth[i] {
			t.Errorf("rank %d depth=%d y=%d, want depth %d", i, b.Depth, b.Y, wantDepth[i])
		}
		if b.Label != string(rune('a'+i)) {
			t.Errorf("rank %d label %q", i, b.Label)
		}
	}

	top := l.Box(3)
	if top.Parent != -1 || top.Left != 1 || top.Right != 5 {
		t.Errorf("top links = %d/%d/%d", top.Parent, top.Left, top.Right)
	}
	if leaf := l.Box(4); leaf.Parent != 5 || leaf.Left != -1 || leaf.Right != -1 {
		t.Errorf("leaf links = %d/%d/%d", leaf.Parent, leaf.Left, leaf.Right)
	}
}

func TestBuildDefaultLabel(t *testing.T) {
	l := Build(letters(3).Root(), nil)
	got := []string{l.Boxes[0].Label, l.Boxes[1].Label, l.Boxes[2].Label}
	if strings.Join(got, ",") != "1,3,1" {
		t.Errorf("labels = %v, want subtree sizes", got)
	}
}

func TestBuildWideLabels(t *testing.T) {
	s := sequence.New[string]()
	s.Append("日本")
	s.Append("")
	s.Append("x")
	l := layoutOf(s)

	if l.Boxes[0].Width != 2 {
		t.Errorf("wide label width = %d, want 2", l.Boxes[0].Width)
	}
	if l.Boxes[1].Label != "·" || l.Boxes[1].X != 3 {
		t.Errorf("empty label box = %+v", l.Boxes[1])
	}
	if l.Boxes[2].X != 5 {
		t.Errorf("third box x = %d, want 5", l.Boxes[2].X)
	}
}

func TestDrawPerfectTree(t *testing.T) {
	l := layoutOf(letters(7))
	g := NewGrid(l.Width, l.Height)
	Draw(g, l, Options{Cursor: -1, Mono: true})

	want := strings.Join([]string{
		"      d",
		"  ┌───┴───┐",
		"  b       f",
		"┌─┴─┐   ┌─┴─┐",
		"a   c   e   g",
	}, "\n")
	if got := g.String(); got != want {
		t.Errorf("drawn:\n%s\nwant:\n%s", got, want)
	}
}

func TestDrawOneSidedJoins(t *testing.T) {
	// Two appends leave the first value on top with a right child.
	l := layoutOf(letters(2))
	g := NewGrid(l.Width, l.Height)
	Draw(g, l, Options{Cursor: -1, Mono: true})
	if got := g.Line(1); got != "└─┐" {
		t.Errorf("edge row = %q", got)
	}

	s := letters(2)
	s.Prepend("z")
	s.Remove(2)
	// z, a with a on top and z as its left child.
	l = layoutOf(s)
	g = NewGrid(l.Width, l.Height)
	Draw(g, l, Options{Cursor: -1, Mono: true})
	if got := g.Line(1); got != "┌─┘" {
		t.Errorf("edge row = %q\n%s", got, g)
	}
}

func TestDrawOffsetClips(t *testing.T) {
	l := layoutOf(letters(7))
	g := NewGrid(5, 1)
	Draw(g, l, Options{OffsetX: 4, OffsetY: 4, Cursor: -1, Mono: true})
	if got := g.Line(0); got != "c   e" {
		t.Errorf("line = %q", got)
	}
}

func TestDrawStyles(t *testing.T) {
	l := layoutOf(letters(7))
	g := NewGrid(l.Width, l.Height)
	Draw(g, l, Options{Cursor: 3})

	top := g.Cell(6, 0)
	if !top.Style.Reverse || top.Style.Fg == nil || *top.Style.Fg != ColorCursor {
		t.Errorf("cursor style = %+v", top.Style)
	}
	leaf := g.Cell(0, 4)
	if leaf.Style.Reverse || leaf.Style.Fg == nil {
		t.Fatalf("leaf style = %+v", leaf.Style)
	}
	if *leaf.Style.Fg == ColorBalanced {
		t.Error("leaf colour should be faded by its weight")
	}
	edge := g.Cell(3, 1)
	if edge.Style.Fg == nil || *edge.Style.Fg != ColorEdge {
		t.Errorf("edge style = %+v", edge.Style)
	}
}

func TestBalanceColor(t *testing.T) {
	tests := []struct {
		balance int
		want    colorful.Color
	}{
		{-1, ColorLeftHeavy},
		{0, ColorBalanced},
		{1, ColorRightHeavy},
		{2, ColorBroken},
		{-2, ColorBroken},
	}
	for _, tt := range tests {
		if got := BalanceColor(tt.balance); got != tt.want {
			t.Errorf("BalanceColor(%d) = %v", tt.balance, got)
		}
	}
}

func TestWeightedColor(t *testing.T) {
	if got := WeightedColor(ColorBalanced, 10, 10); got != ColorBalanced {
		t.Error("full weight should keep the colour")
	}
	if got := WeightedColor(ColorBalanced, 1, 0); got != ColorBalanced {
		t.Error("empty total should keep the colour")
	}
	light := WeightedColor(ColorBalanced, 1, 100)
	heavy := WeightedColor(ColorBalanced, 60, 100)
	if light.DistanceLab(ColorBalanced) <= heavy.DistanceLab(ColorBalanced) {
		t.Error("lighter subtrees should be further from the base colour")
	}
	if !light.IsValid() {
		t.Errorf("colour out of gamut: %v", light)
	}
}

func TestTextClipsAndReturnsColumn(t *testing.T) {
	g := NewGrid(4, 2)
	if next := Text(g, 1, 0, "abcdef", Style{}); next != 7 {
		t.Errorf("next = %d, want 7", next)
	}
	if got := g.Line(0); got != " abc" {
		t.Errorf("line = %q", got)
	}
	if next := Text(g, 0, 5, "zz", Style{}); next != 2 {
		t.Errorf("off-canvas next = %d", next)
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()
	screen.SetSize(20, 6)

	l := layoutOf(letters(7))
	term.Clear()
	Draw(term, l, Options{Cursor: 3})
	term.Show()

	w, h := term.Size()
	if w != 20 || h != 6 {
		t.Fatalf("size = %dx%d", w, h)
	}
	mainc, _, style, _ := screen.GetContent(6, 0) //nolint:staticcheck // GetContent is the correct API
	if mainc != 'd' {
		t.Errorf("top cell = %q", mainc)
	}
	_, _, attrs := style.Decompose()
	if attrs&tcell.AttrReverse == 0 {
		t.Error("cursor cell not reversed")
	}
	if mainc, _, _, _ := screen.GetContent(2, 1); mainc != '┌' { //nolint:staticcheck
		t.Errorf("edge cell = %q", mainc)
	}
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
		want Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), Event{Type: EventKey, Key: KeyRune, Rune: 'q'}},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Event{Type: EventKey, Key: KeyLeft}},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), Event{Type: EventKey, Key: KeyCtrlC}},
		{"unmapped", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), Event{Type: EventNone}},
		{"resize", tcell.NewEventResize(80, 24), Event{Type: EventResize, Width: 80, Height: 24}},
		{"nil", nil, Event{Type: EventNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertEvent(tt.ev)
			if got.Type != tt.want.Type || got.Key != tt.want.Key || got.Width != tt.want.Width || got.Height != tt.want.Height {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if tt.want.Key == KeyRune && got.Rune != tt.want.Rune {
				t.Errorf("rune = %q", got.Rune)
			}
		})
	}
}
