// Package tabset implements the single-selection state machine of a tab strip.
//
// A Controller owns an ordered list of tabs and guarantees that at most one of
// them is active. Hosts add and remove tabs as the backing collection changes
// and route clicks through UserSelect; programmatic activation goes through
// ForceActivate, which bypasses the disabled flag.
package tabset

import (
	"github.com/grovetools/tabs/logging"
	"github.com/sirupsen/logrus"
)

// Options are rendering flags passed through to the host untouched.
type Options struct {
	// Type is the strip style, "tabs" or "pills".
	Type      string
	Vertical  bool
	Justified bool
}

// Controller owns the tabs of one strip. It is not safe for concurrent use;
// hosts call it from their event loop.
type Controller struct {
	tabs      []*Tab
	destroyed bool
	opts      Options
	logger    *logrus.Entry
}

// NewController creates an empty controller.
func NewController(opts Options) *Controller {
	if opts.Type == "" {
		opts.Type = "tabs"
	}
	return &Controller{
		opts:   opts,
		logger: logging.NewLogger("tabset"),
	}
}

// Select makes tab the single active tab. Every other active tab is
// deactivated and notified first, so calling Select on an already active tab
// still clears any stale actives. Tabs not owned by the controller are ignored.
func (c *Controller) Select(tab *Tab) {
	if c.IndexOf(tab) < 0 {
		return
	}

	for _, other := range c.tabs {
		if other.Active && other != tab {
			other.Active = false
			other.notifyDeselect()
		}
	}
	tab.Active = true
	tab.notifySelect()

	c.logger.WithField("tab", tab.Label).Debug("Tab selected")
}

// AddTab appends tab. The first tab of an empty controller becomes active
// without notifications; a tab that arrives active is routed through Select.
func (c *Controller) AddTab(tab *Tab) {
	c.InsertTab(len(c.tabs), tab)
}

// InsertTab places tab at index (clamped to the valid range) with the same
// activation rules as AddTab.
func (c *Controller) InsertTab(index int, tab *Tab) {
	if tab == nil || c.IndexOf(tab) >= 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(c.tabs) {
		index = len(c.tabs)
	}

	c.tabs = append(c.tabs, nil)
	copy(c.tabs[index+1:], c.tabs[index:])
	c.tabs[index] = tab

	switch {
	case len(c.tabs) == 1:
		// Nothing to deselect, and Select would notify twice.
		tab.Active = true
	case tab.Active:
		c.Select(tab)
	}
}

// RemoveTab deletes tab. When the active tab goes and others remain, the next
// tab is selected, or the previous one when the removed tab was last. No
// reselection happens once the controller is destroyed. Removing a tab the
// controller does not own is a no-op.
func (c *Controller) RemoveTab(tab *Tab) {
	index := c.IndexOf(tab)
	if index < 0 {
		return
	}

	if tab.Active && len(c.tabs) > 1 && !c.destroyed {
		next := index + 1
		if index == len(c.tabs)-1 {
			next = index - 1
		}
		c.Select(c.tabs[next])
	}

	c.tabs = append(c.tabs[:index], c.tabs[index+1:]...)
}

// UserSelect is the click path: disabled tabs are ignored. It reports whether
// the tab was selected.
func (c *Controller) UserSelect(tab *Tab) bool {
	if tab == nil || tab.Disabled || c.IndexOf(tab) < 0 {
		return false
	}
	c.Select(tab)
	return true
}

// ForceActivate is the host-driven path and selects tab even when disabled.
func (c *Controller) ForceActivate(tab *Tab) {
	c.Select(tab)
}

// Destroy marks the controller as torn down. Subsequent removals never
// reselect. It cannot be undone.
func (c *Controller) Destroy() {
	c.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (c *Controller) Destroyed() bool {
	return c.destroyed
}

// IndexOf returns the position of tab, or -1.
func (c *Controller) IndexOf(tab *Tab) int {
	if tab == nil {
		return -1
	}
	for i, t := range c.tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

// At returns the tab at index, or nil when out of range.
func (c *Controller) At(index int) *Tab {
	if index < 0 || index >= len(c.tabs) {
		return nil
	}
	return c.tabs[index]
}

// Active returns the active tab, or nil.
func (c *Controller) Active() *Tab {
	for _, t := range c.tabs {
		if t.Active {
			return t
		}
	}
	return nil
}

// Len returns the number of tabs.
func (c *Controller) Len() int {
	return len(c.tabs)
}

// Tabs returns a copy of the ordered tab list.
func (c *Controller) Tabs() []*Tab {
	out := make([]*Tab, len(c.tabs))
	copy(out, c.tabs)
	return out
}

// Options returns the rendering flags.
func (c *Controller) Options() Options {
	return c.opts
}

// SetOptions replaces the rendering flags, e.g. after a config reload.
func (c *Controller) SetOptions(opts Options) {
	if opts.Type == "" {
		opts.Type = "tabs"
	}
	c.opts = opts
}
