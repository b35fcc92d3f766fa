package board

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tabs/tui/components/tabstrip"
)

// handleMouse maps terminal mouse events onto the strips:
// press on a tab arms a drag, motion with the button held starts it and
// moves it between candidates, release drops and ends it. A press and
// release without motion is a click.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.onPress(msg.X, msg.Y)

	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft && (m.press != nil || m.drag != nil) {
			m.onDragMotion(msg.X, msg.Y)
			return
		}
		m.onHover(msg.X, msg.Y)

	case tea.MouseActionRelease:
		m.onRelease(msg.X, msg.Y)
	}
}

func (m *Model) onPress(x, y int) {
	si, cell, ok := m.hitTest(x, y)
	if !ok || cell.Tail {
		m.press = nil
		return
	}
	m.focus = si
	m.press = &pressed{strip: si, index: cell.Index}
}

func (m *Model) onDragMotion(x, y int) {
	if m.drag == nil {
		if !m.startDrag() {
			return
		}
	}

	si, cell, ok := m.hitTest(x, y)
	over := m.drag.over

	if over != nil && (!ok || over.strip != si || over.cell.Index != cell.Index) {
		m.leave(over, m.drag)
		m.drag.over = nil
	}
	if !ok {
		return
	}

	strip := m.strips[si].Strip
	if m.drag.over == nil {
		if err := strip.DragEnter(m.ctx, cell.Index, m.drag.transfer); err != nil {
			m.logger.WithError(err).Warn("Drag enter failed")
			m.setStatus(err.Error(), true)
		}
		m.drag.over = &target{strip: si, cell: cell}
	}
	strip.DragOver(cell.Index, cell.Rect, tabstrip.Center(x, y))
}

// startDrag turns the armed press into a drag.
func (m *Model) startDrag() bool {
	p := m.press
	m.press = nil
	if p == nil {
		return false
	}

	strip := m.strips[p.strip].Strip
	session, transfer, err := strip.DragStart(m.ctx, p.index)
	if err != nil {
		m.logger.WithError(err).Warn("Drag start failed")
		m.setStatus(err.Error(), true)
		return false
	}

	m.clearHover()
	m.drag = &dragging{strip: p.strip, session: session, transfer: transfer}
	m.setStatus(fmt.Sprintf("dragging %s", strip.Tab(p.index).Label), false)
	return true
}

func (m *Model) leave(t *target, d *dragging) {
	strip := m.strips[t.strip].Strip
	if err := strip.DragLeave(m.ctx, t.cell.Index, d.transfer); err != nil {
		m.logger.WithError(err).Warn("Drag leave failed")
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) onRelease(x, y int) {
	if m.drag == nil {
		if p := m.press; p != nil {
			m.press = nil
			if si, cell, ok := m.hitTest(x, y); ok && si == p.strip && cell.Index == p.index {
				m.strips[si].Strip.Click(cell.Index)
			}
		}
		return
	}

	d := m.drag
	m.drag = nil
	source := m.strips[d.strip].Strip

	label := d.session.Category
	var it tabstrip.Item
	if d.session.Decode(&it) == nil && it.Title != "" {
		label = it.Title
	}

	dropped, rejected := false, false
	if d.over != nil {
		si, cell, ok := m.hitTest(x, y)
		if !ok || si != d.over.strip || cell.Index != d.over.cell.Index {
			// Released off the last candidate.
			m.leave(d.over, d)
		} else {
			dst := m.strips[si].Strip
			inserted, err := dst.Drop(m.ctx, cell.Index, cell.Rect, tabstrip.Center(x, y), d.transfer)
			dropped = inserted
			switch {
			case err != nil:
				rejected = true
				m.logger.WithError(err).Warn("Drop failed")
				m.setStatus(err.Error(), true)
			case !inserted:
				rejected = true
				m.setStatus(fmt.Sprintf("%s cannot be dropped on %s", label, dst.Name()), false)
			}
		}
	}

	found, err := source.DragEnd(m.ctx, d.session)
	switch {
	case err != nil:
		m.logger.WithError(err).Warn("Drag end failed")
		m.setStatus(err.Error(), true)
	case found && dropped:
		m.setStatus(fmt.Sprintf("moved %s", label), false)
	case !rejected:
		m.setStatus("drag cancelled", false)
	}
}

// abortDrag ends an in-flight drag without a drop, e.g. on quit.
func (m *Model) abortDrag() {
	if m.drag == nil {
		return
	}
	d := m.drag
	m.drag = nil
	if d.over != nil {
		m.leave(d.over, d)
	}
	if _, err := m.strips[d.strip].Strip.DragEnd(m.ctx, d.session); err != nil {
		m.logger.WithError(err).Warn("Drag end failed")
	}
}

func (m *Model) onHover(x, y int) {
	si, cell, ok := m.hitTest(x, y)
	if ok && !cell.Tail {
		if m.hover != nil && m.hover.strip == si && m.hover.index == cell.Index {
			return
		}
		m.clearHover()
		m.strips[si].Strip.MouseEnter(cell.Index)
		m.hover = &hovered{strip: si, index: cell.Index}
		return
	}
	m.clearHover()
}

func (m *Model) clearHover() {
	if m.hover == nil {
		return
	}
	m.strips[m.hover.strip].Strip.MouseLeave(m.hover.index)
	m.hover = nil
}
