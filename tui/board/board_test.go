package board

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tabs/drop"
	"github.com/grovetools/tabs/sortable"
	"github.com/grovetools/tabs/store"
	"github.com/grovetools/tabs/tabset"
	"github.com/grovetools/tabs/tui/components/tabstrip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stripDef struct {
	name     string
	category string
	items    []tabstrip.Item
}

func items(titles ...string) []tabstrip.Item {
	out := make([]tabstrip.Item, 0, len(titles))
	for _, t := range titles {
		out = append(out, tabstrip.Item{Title: t, Body: "body of " + t})
	}
	return out
}

func newBoard(t *testing.T, defs ...stripDef) Model {
	t.Helper()
	resolver := drop.NewResolver(store.NewMemory())

	var views []tabstrip.Model
	for _, def := range defs {
		s, err := sortable.New[tabstrip.Item](def.name, def.category, resolver,
			sortable.WithLabel(tabstrip.Label),
			sortable.WithTabHook(tabstrip.DisableHook),
		)
		require.NoError(t, err)
		for _, it := range def.items {
			s.Append(it)
		}
		views = append(views, tabstrip.New(s))
	}

	m := New(context.Background(), views...)
	return send(m, tea.WindowSizeMsg{Width: 60, Height: 30})
}

func send(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func titles(m Model, strip int) []string {
	out := []string{}
	for _, it := range m.Strips()[strip].Strip.Items() {
		out = append(out, it.Title)
	}
	return out
}

// cellAt returns the terminal coordinates of the left or right part of a cell.
func cellAt(t *testing.T, m Model, strip, index int, right bool) (int, int) {
	t.Helper()
	for _, c := range m.Strips()[strip].Cells() {
		if c.Index == index {
			x := int(c.Rect.X)
			if right {
				x = int(c.Rect.X+c.Rect.W) - 1
			}
			return x, int(c.Rect.Y)
		}
	}
	t.Fatalf("no cell %d in strip %d", index, strip)
	return 0, 0
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func hover(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// dragTo drags tab from of strip src onto tab onto of strip dst.
func dragTo(t *testing.T, m Model, src, from, dst, onto int, right bool) Model {
	t.Helper()
	px, py := cellAt(t, m, src, from, false)
	m = send(m, press(px+1, py))
	m = send(m, motion(px+2, py))
	require.True(t, m.Dragging())

	dx, dy := cellAt(t, m, dst, onto, right)
	m = send(m, motion(dx, dy))
	m = send(m, release(dx, dy))
	require.False(t, m.Dragging())
	return m
}

func TestDragBetweenStrips(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y", "Z")},
		stripDef{"b", "c", items("P", "Q")},
	)

	m = dragTo(t, m, 0, 1, 1, 1, false)

	assert.Equal(t, []string{"X", "Z"}, titles(m, 0))
	assert.Equal(t, []string{"P", "Y", "Q"}, titles(m, 1))
	assert.Equal(t, "moved Y", m.Status())
	assert.Contains(t, m.View(), "body of X")
}

func TestReorderWithinStrip(t *testing.T) {
	m := newBoard(t, stripDef{"a", "c", items("X", "Y", "Z")})

	m = dragTo(t, m, 0, 0, 0, 2, true)

	assert.Equal(t, []string{"Y", "Z", "X"}, titles(m, 0))
	for _, tab := range m.Strips()[0].Strip.Tabs() {
		assert.False(t, tab.Markers.Dragging)
		assert.False(t, tab.Markers.DragOver)
		assert.False(t, tab.Markers.InsertAfter)
	}
}

func TestDropOnEmptyStripTail(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y")},
		stripDef{"b", "c", nil},
	)

	m = dragTo(t, m, 0, 0, 1, 0, false)

	assert.Equal(t, []string{"Y"}, titles(m, 0))
	assert.Equal(t, []string{"X"}, titles(m, 1))
}

func TestCategoryMismatch(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y")},
		stripDef{"notes", "d", items("M")},
	)

	m = dragTo(t, m, 0, 1, 1, 0, false)

	assert.Equal(t, []string{"X", "Y"}, titles(m, 0))
	assert.Equal(t, []string{"M"}, titles(m, 1))
	assert.Equal(t, "Y cannot be dropped on notes", m.Status())
}

func TestReleaseOutsideCancels(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y")},
		stripDef{"b", "c", items("P")},
	)

	px, py := cellAt(t, m, 0, 0, false)
	m = send(m, press(px+1, py))
	m = send(m, motion(px+2, py))
	bx, by := cellAt(t, m, 1, 0, false)
	m = send(m, motion(bx, by))
	m = send(m, motion(bx, 200))
	m = send(m, release(bx, 200))

	assert.False(t, m.Dragging())
	assert.Equal(t, []string{"X", "Y"}, titles(m, 0))
	assert.Equal(t, []string{"P"}, titles(m, 1))
	assert.Equal(t, "drag cancelled", m.Status())
}

func TestClickSelects(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", []tabstrip.Item{{Title: "X"}, {Title: "Y", Disabled: true}, {Title: "Z"}}},
		stripDef{"b", "c", items("P", "Q")},
	)

	x, y := cellAt(t, m, 0, 2, false)
	m = send(m, press(x+1, y))
	m = send(m, release(x+1, y))
	assert.Equal(t, "Z", m.Strips()[0].Strip.Controller().Active().Label)
	assert.Equal(t, 0, m.Focus())

	x, y = cellAt(t, m, 0, 1, false)
	m = send(m, press(x+1, y))
	m = send(m, release(x+1, y))
	assert.Equal(t, "Z", m.Strips()[0].Strip.Controller().Active().Label, "disabled tab ignores clicks")

	x, y = cellAt(t, m, 1, 1, false)
	m = send(m, press(x+1, y))
	m = send(m, release(x+1, y))
	assert.Equal(t, "Q", m.Strips()[1].Strip.Controller().Active().Label)
	assert.Equal(t, 1, m.Focus())
}

func TestHoverMarker(t *testing.T) {
	m := newBoard(t, stripDef{"a", "c", items("X", "Y")})

	x, y := cellAt(t, m, 0, 1, false)
	m = send(m, hover(x+1, y))
	assert.True(t, m.Strips()[0].Strip.Tab(1).Markers.Hover)

	x, y = cellAt(t, m, 0, 0, false)
	m = send(m, hover(x+1, y))
	assert.False(t, m.Strips()[0].Strip.Tab(1).Markers.Hover)
	assert.True(t, m.Strips()[0].Strip.Tab(0).Markers.Hover)

	m = send(m, hover(0, 200))
	assert.False(t, m.Strips()[0].Strip.Tab(0).Markers.Hover)
}

func TestKeys(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y")},
		stripDef{"b", "c", items("P")},
	)

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.Focus())
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.Focus())
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.Focus())
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, m.Focus())

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, []string{"Y"}, titles(m, 0))
	assert.Equal(t, "Y", m.Strips()[0].Strip.Controller().Active().Label)
	assert.Equal(t, "closed X", m.Status())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, updated.View())
}

func TestQuitDuringDragKeepsSource(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y")},
		stripDef{"b", "c", items("P")},
	)

	px, py := cellAt(t, m, 0, 0, false)
	m = send(m, press(px+1, py))
	m = send(m, motion(px+2, py))
	bx, by := cellAt(t, m, 1, 0, false)
	m = send(m, motion(bx, by))
	require.True(t, m.Dragging())

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.False(t, m.Dragging())
	assert.Equal(t, []string{"X", "Y"}, titles(m, 0))
	assert.False(t, m.Strips()[0].Strip.Tab(0).Markers.Dragging)
}

func TestOptionsMsg(t *testing.T) {
	m := newBoard(t,
		stripDef{"a", "c", items("X", "Y")},
		stripDef{"b", "c", items("P")},
	)
	before := m.Strips()[1].Y

	m = send(m, OptionsMsg{"a": {Type: "pills", Vertical: true}, "missing": {}})
	assert.Equal(t, tabset.Options{Type: "pills", Vertical: true}, m.Strips()[0].Strip.Controller().Options())
	assert.Equal(t, tabset.Options{}, m.Strips()[1].Strip.Controller().Options())
	assert.Greater(t, m.Strips()[1].Y, before, "vertical strip pushes the next one down")
}

func TestKeyOverrides(t *testing.T) {
	km := DefaultKeyMap.WithOverrides(Overrides{"close": {"d", "delete"}, "next_strip": {}, "bogus": {"z"}})

	assert.Equal(t, []string{"d", "delete"}, km.Close.Keys())
	assert.Equal(t, "close tab", km.Close.Help().Desc)
	assert.Equal(t, DefaultKeyMap.NextStrip.Keys(), km.NextStrip.Keys())
	assert.Equal(t, []string{"x"}, DefaultKeyMap.Close.Keys(), "defaults untouched")

	m := newBoard(t, stripDef{"a", "c", items("X", "Y")})
	m.Keys = km
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, []string{"X", "Y"}, titles(m, 0))
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Equal(t, []string{"Y"}, titles(m, 0))
}
