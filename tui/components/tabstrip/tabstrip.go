// Package tabstrip renders one sortable strip in the terminal and maps
// screen cells back to tabs for mouse handling.
package tabstrip

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabs/drop"
	"github.com/grovetools/tabs/sortable"
	"github.com/grovetools/tabs/tabset"
	"github.com/grovetools/tabs/tui/theme"
)

const (
	defaultWidth = 40
	// headerHeight is the strip title line above the frame.
	headerHeight = 1
	border       = 1
)

// Item is the payload carried by terminal tabs.
type Item struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Label returns the tab heading of an item.
func Label(it Item) string {
	return it.Title
}

// DisableHook marks tabs of disabled items as disabled.
func DisableHook(tab *tabset.Tab, it Item) {
	tab.Disabled = it.Disabled
}

// Cell is the on-screen box of one tab. The tail cell after the last tab has
// Index equal to the strip length and accepts appends.
type Cell struct {
	Index int
	Rect  drop.Rect
	Tail  bool
}

// Model draws a strip at a fixed origin. The board sets X, Y and Width
// during layout.
type Model struct {
	Strip   *sortable.Strip[Item]
	Theme   *theme.Theme
	Focused bool
	X, Y    int
	Width   int
}

// New creates a strip view with the default theme.
func New(strip *sortable.Strip[Item]) Model {
	return Model{
		Strip: strip,
		Theme: theme.DefaultTheme,
		Width: defaultWidth,
	}
}

func (m Model) theme() *theme.Theme {
	if m.Theme == nil {
		return theme.DefaultTheme
	}
	return m.Theme
}

func (m Model) innerWidth() int {
	w := m.Width
	if w <= 0 {
		w = defaultWidth
	}
	if w < 2*border+4 {
		w = 2*border + 4
	}
	return w - 2*border
}

func (m Model) vertical() bool {
	return m.Strip.Controller().Options().Vertical
}

// rows is the number of lines inside the frame.
func (m Model) rows() int {
	if m.vertical() {
		// One line per tab plus the tail.
		return m.Strip.Len() + 1
	}
	return 1
}

// Height is the number of terminal lines View produces.
func (m Model) Height() int {
	// header, frame, content pane
	return headerHeight + m.rows() + 2*border + 1
}

// renderTab draws one tab including its two marker columns.
func (m Model) renderTab(tab *tabset.Tab, width int) string {
	t := m.theme()

	style := t.InactiveTab
	switch {
	case tab.Markers.Dragging:
		style = t.DraggingTab
	case tab.Disabled:
		style = t.DisabledTab
	case tab.Markers.DragOver:
		style = t.DragOverTab
	case tab.Active:
		style = t.ActiveTab
	case tab.Markers.Hover:
		style = t.HoverTab
	}

	label := tab.Label
	if m.Strip.Controller().Options().Type == "pills" {
		label = "(" + label + ")"
	}
	if width > 0 {
		style = style.Width(width - 2).MaxHeight(1).Align(lipgloss.Center)
	}

	left, right := " ", " "
	if tab.Markers.InsertBefore {
		left = t.InsertMarker.Render("▎")
	}
	if tab.Markers.InsertAfter {
		right = t.InsertMarker.Render("▕")
	}
	return left + style.Render(label) + right
}

// fixedWidth returns the per-tab width of justified strips, or 0.
func (m Model) fixedWidth() int {
	n := m.Strip.Len()
	if n == 0 {
		return 0
	}
	if m.vertical() {
		w := 0
		for _, tab := range m.Strip.Tabs() {
			if cw := lipgloss.Width(m.renderTab(tab, 0)); cw > w {
				w = cw
			}
		}
		return w
	}
	if !m.Strip.Controller().Options().Justified {
		return 0
	}
	return m.innerWidth() / n
}

// Cells lays out every tab and the tail cell in screen coordinates.
func (m Model) Cells() []Cell {
	tabs := m.Strip.Tabs()
	fixed := m.fixedWidth()
	inner := m.innerWidth()

	originX := m.X + border
	originY := m.Y + headerHeight + border

	cells := make([]Cell, 0, len(tabs)+1)
	x, y := originX, originY
	for i, tab := range tabs {
		w := fixed
		if w == 0 {
			w = lipgloss.Width(m.renderTab(tab, 0))
		}
		cells = append(cells, Cell{
			Index: i,
			Rect:  drop.Rect{X: float64(x), Y: float64(y), W: float64(w), H: 1},
		})
		if m.vertical() {
			y++
		} else {
			x += w
		}
	}

	tailW := inner - (x - originX)
	if m.vertical() {
		tailW = inner
	}
	if tailW < 1 {
		tailW = 1
	}
	cells = append(cells, Cell{
		Index: len(tabs),
		Rect:  drop.Rect{X: float64(x), Y: float64(y), W: float64(tailW), H: 1},
		Tail:  true,
	})
	return cells
}

// HitTest returns the cell under the terminal position (x, y).
func (m Model) HitTest(x, y int) (Cell, bool) {
	p := Center(x, y)
	for _, c := range m.Cells() {
		if c.Rect.Contains(p) {
			return c, true
		}
	}
	return Cell{}, false
}

// Center converts a terminal cell to the point at its centre, so that the
// midpoint rule splits odd-width tabs evenly.
func Center(x, y int) drop.Point {
	return drop.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

// View renders the strip: a title line, the framed tab row and the body of
// the active tab.
func (m Model) View() string {
	t := m.theme()
	inner := m.innerWidth()
	fixed := m.fixedWidth()

	var parts []string
	for _, tab := range m.Strip.Tabs() {
		parts = append(parts, m.renderTab(tab, fixed))
	}

	var row string
	if m.vertical() {
		parts = append(parts, "")
		row = strings.Join(parts, "\n")
	} else {
		row = strings.Join(parts, "")
	}
	if m.Strip.Len() == 0 {
		row = t.Muted.Render("drop tabs here")
	}

	frame := t.Strip
	if m.Focused {
		frame = t.FocusedStrip
	}
	framed := frame.Width(inner).Height(m.rows()).MaxHeight(m.rows() + 2*border).Render(row)

	header := t.Header.Render(m.Strip.Name()) + " " + t.Muted.Render("["+m.Strip.Category()+"]")

	body := ""
	if active := m.Strip.Controller().Active(); active != nil {
		if it, ok := active.Content.(Item); ok {
			body = it.Body
		}
	}
	pane := t.Pane.Width(inner + 2*border).MaxHeight(1).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, framed, pane)
}
