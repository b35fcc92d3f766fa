// Package board is the reference terminal host: it stacks several tab strips
// and turns mouse gestures into the drag protocol, so tabs can be reordered
// inside a strip or dragged to another strip of the same category.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabs/drag"
	"github.com/grovetools/tabs/logging"
	"github.com/grovetools/tabs/tabset"
	"github.com/grovetools/tabs/tui/components/tabstrip"
	"github.com/grovetools/tabs/tui/theme"
	"github.com/sirupsen/logrus"
)

// gap is the number of blank lines between strips.
const gap = 1

// pressed is a button press that has not yet become a drag.
type pressed struct {
	strip int
	index int
}

// target is the strip cell currently under a dragged tab.
type target struct {
	strip int
	cell  tabstrip.Cell
}

// dragging is an in-flight drag started on the board.
type dragging struct {
	strip    int
	session  *drag.Session
	transfer drag.Transfer
	over     *target
}

// hovered is the tab under the pointer when no button is held.
type hovered struct {
	strip int
	index int
}

// OptionsMsg replaces the rendering options of strips by name, e.g. after
// the configuration file changed.
type OptionsMsg map[string]tabset.Options

// Model is the bubbletea model of the board.
type Model struct {
	Keys  KeyMap
	Theme *theme.Theme

	ctx      context.Context
	strips   []tabstrip.Model
	focus    int
	width    int
	height   int
	help     help.Model
	status   string
	failed   bool
	press    *pressed
	drag     *dragging
	hover    *hovered
	logger   *logrus.Entry
	quitting bool
}

// New creates a board over strips. ctx bounds every store call made while
// dragging.
func New(ctx context.Context, strips ...tabstrip.Model) Model {
	m := Model{
		Keys:   DefaultKeyMap,
		Theme:  theme.DefaultTheme,
		ctx:    ctx,
		strips: strips,
		help:   help.New(),
		width:  80,
		logger: logging.NewLogger("board"),
	}
	m.layout()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Strips returns the strip views in layout order.
func (m Model) Strips() []tabstrip.Model {
	return m.strips
}

// Focus returns the index of the focused strip.
func (m Model) Focus() int {
	return m.focus
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.status
}

// Dragging reports whether a drag is in flight.
func (m Model) Dragging() bool {
	return m.drag != nil
}

// layout assigns origins and widths; strip heights change as tabs move.
func (m *Model) layout() {
	y := 0
	for i := range m.strips {
		m.strips[i].X = 0
		m.strips[i].Y = y
		m.strips[i].Width = m.width
		m.strips[i].Focused = i == m.focus
		if m.Theme != nil {
			m.strips[i].Theme = m.Theme
		}
		y += m.strips[i].Height() + gap
	}
}

// hitTest finds the strip cell at (x, y).
func (m Model) hitTest(x, y int) (int, tabstrip.Cell, bool) {
	for i, s := range m.strips {
		if cell, ok := s.HitTest(x, y); ok {
			return i, cell, true
		}
	}
	return 0, tabstrip.Cell{}, false
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.layout()
		m.handleMouse(msg)
		m.layout()
		return m, nil

	case OptionsMsg:
		for _, s := range m.strips {
			if opts, ok := msg[s.Strip.Name()]; ok {
				s.Strip.Controller().SetOptions(opts)
			}
		}
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.abortDrag()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.Keys.NextStrip):
		if len(m.strips) > 0 {
			m.focus = (m.focus + 1) % len(m.strips)
		}

	case key.Matches(msg, m.Keys.PrevStrip):
		if len(m.strips) > 0 {
			m.focus = (m.focus - 1 + len(m.strips)) % len(m.strips)
		}

	case key.Matches(msg, m.Keys.Close):
		m.closeActive()
	}

	m.layout()
	return m, nil
}

// closeActive removes the active tab of the focused strip.
func (m *Model) closeActive() {
	if m.focus >= len(m.strips) || m.drag != nil {
		return
	}
	strip := m.strips[m.focus].Strip
	active := strip.Controller().Active()
	if active == nil {
		return
	}
	strip.RemoveAt(strip.IndexOfTab(active))
	m.setStatus(fmt.Sprintf("closed %s", active.Label), false)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	t := m.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	views := make([]string, 0, len(m.strips))
	for _, s := range m.strips {
		views = append(views, s.View())
	}
	body := strings.Join(views, strings.Repeat("\n", gap+1))

	status := t.Muted.Render(m.status)
	if m.failed {
		status = t.Error.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", status, m.help.View(m.Keys))
}
