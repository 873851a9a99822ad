// Package view provides a read-only terminal browser for a document
// tree. The tree is shown as an indented outline; arrow keys or j/k
// move the selection, left/right (or h/l) collapse and expand, and q
// or Escape quits.
package view

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/domtree/internal/engine/tree"
)

const maxLabel = 60

// row is one visible outline line.
type row struct {
	uid     tree.UID
	depth   int
	label   string
	hasKids bool
}

// Outline is the interactive browser state.
type Outline struct {
	tr        *tree.Tree
	title     string
	collapsed map[tree.UID]bool

	rows []row
	sel  int
	top  int
}

// New creates an outline over the tree. The tree must not be mutated
// while the outline is running.
func New(t *tree.Tree, title string) *Outline {
	return &Outline{
		tr:        t,
		title:     title,
		collapsed: make(map[tree.UID]bool),
	}
}

// Run opens the terminal screen and blocks until the user quits.
func (o *Outline) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return o.loop(screen)
}

// loop is the event loop, separated from Run so tests can drive it
// with a simulation screen.
func (o *Outline) loop(screen tcell.Screen) error {
	o.refresh()
	for {
		o.draw(screen)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if o.handleKey(ev) {
				return nil
			}
		case nil:
			return nil
		}
	}
}

// handleKey applies one key event; it reports true when the user quits.
func (o *Outline) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		o.move(-1)
	case tcell.KeyDown:
		o.move(1)
	case tcell.KeyLeft:
		o.collapse()
	case tcell.KeyRight:
		o.expand()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			o.move(-1)
		case 'j':
			o.move(1)
		case 'h':
			o.collapse()
		case 'l':
			o.expand()
		}
	}
	return false
}

func (o *Outline) move(delta int) {
	o.sel += delta
	if o.sel < 0 {
		o.sel = 0
	}
	if o.sel >= len(o.rows) {
		o.sel = len(o.rows) - 1
	}
}

func (o *Outline) collapse() {
	if o.sel >= len(o.rows) {
		return
	}
	r := o.rows[o.sel]
	if r.hasKids {
		o.collapsed[r.uid] = true
		o.refresh()
	}
}

func (o *Outline) expand() {
	if o.sel >= len(o.rows) {
		return
	}
	r := o.rows[o.sel]
	if r.hasKids && o.collapsed[r.uid] {
		delete(o.collapsed, r.uid)
		o.refresh()
	}
}

// refresh rebuilds the visible rows from the tree, honoring collapsed
// subtrees, and clamps the selection.
func (o *Outline) refresh() {
	o.rows = o.rows[:0]
	if root := o.tr.Root(); root != nil {
		o.walk(root, 0)
	}
	if o.sel >= len(o.rows) {
		o.sel = len(o.rows) - 1
	}
	if o.sel < 0 {
		o.sel = 0
	}
}

func (o *Outline) walk(n *tree.Node, depth int) {
	o.rows = append(o.rows, row{
		uid:     n.UID(),
		depth:   depth,
		label:   label(n),
		hasKids: n.NumChildren() > 0,
	})
	if o.collapsed[n.UID()] {
		return
	}
	for _, kid := range n.Children() {
		child, ok := o.tr.Get(kid)
		if !ok {
			continue
		}
		o.walk(child, depth+1)
	}
}

// label formats one node for display, truncating long payloads on a
// rune boundary.
func label(n *tree.Node) string {
	var s string
	if n.Kind() == tree.KindData {
		s = fmt.Sprintf("%q", n.Text())
	} else {
		s = "<" + n.Name() + ">"
	}
	if utf8.RuneCountInString(s) > maxLabel {
		s = string([]rune(s)[:maxLabel-1]) + "…"
	}
	return fmt.Sprintf("%s  [%d]", s, n.UID())
}

func (o *Outline) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	if height < 2 {
		screen.Show()
		return
	}

	titleStyle := tcell.StyleDefault.Bold(true)
	puts(screen, 0, 0, width, o.title, titleStyle)

	// Keep the selection inside the viewport.
	visible := height - 1
	if o.sel < o.top {
		o.top = o.sel
	}
	if o.sel >= o.top+visible {
		o.top = o.sel - visible + 1
	}

	for i := 0; i < visible && o.top+i < len(o.rows); i++ {
		r := o.rows[o.top+i]
		style := tcell.StyleDefault
		if o.top+i == o.sel {
			style = style.Reverse(true)
		}
		marker := "  "
		if r.hasKids {
			if o.collapsed[r.uid] {
				marker = "+ "
			} else {
				marker = "- "
			}
		}
		line := indent(r.depth) + marker + r.label
		puts(screen, 0, i+1, width, line, style)
	}
	screen.Show()
}

func indent(depth int) string {
	s := ""
	for i := 0; i < depth; i++ {
		s += "  "
	}
	return s
}

func puts(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		if col >= width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}
