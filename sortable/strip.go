// Package sortable binds a backing item collection to a tab strip and the
// drag protocol. A Strip keeps its items, its tabs and its controller in the
// same order, acts as the drag source for its own tabs and as a drop target
// for payloads from strips with the same category.
package sortable

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grovetools/tabs/drag"
	"github.com/grovetools/tabs/drop"
	"github.com/grovetools/tabs/errors"
	"github.com/grovetools/tabs/logging"
	"github.com/grovetools/tabs/tabset"
	"github.com/sirupsen/logrus"
)

// Option configures a Strip.
type Option[T any] func(*Strip[T])

// WithLabel sets how an item is turned into a tab label. The default uses
// fmt's %v verb.
func WithLabel[T any](fn func(T) string) Option[T] {
	return func(s *Strip[T]) {
		s.label = fn
	}
}

// WithTabHook registers fn to run for every tab the strip creates, before
// the tab is added to the controller. Hosts use it to attach callbacks or to
// mark tabs disabled.
func WithTabHook[T any](fn func(*tabset.Tab, T)) Option[T] {
	return func(s *Strip[T]) {
		s.hook = fn
	}
}

// WithOptions sets the rendering flags of the underlying controller.
func WithOptions[T any](opts tabset.Options) Option[T] {
	return func(s *Strip[T]) {
		s.ctrl.SetOptions(opts)
	}
}

// Strip is a sortable tab strip over items of type T. T must survive a JSON
// round trip; dropped items are rebuilt from their JSON form. Not safe for
// concurrent use.
type Strip[T any] struct {
	name     string
	category string
	resolver *drop.Resolver
	ctrl     *tabset.Controller
	items    []T
	tabs     []*tabset.Tab
	drags    map[string]*tabset.Tab
	label    func(T) string
	hook     func(*tabset.Tab, T)
	logger   *logrus.Entry
}

// New creates an empty strip. name identifies the strip in logs and errors;
// category gates which drops are accepted and must not be empty.
func New[T any](name, category string, resolver *drop.Resolver, opts ...Option[T]) (*Strip[T], error) {
	if category == "" {
		return nil, errors.CategoryMissing(name)
	}
	if resolver == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sortable strip requires a drop resolver").
			WithDetail("strip", name)
	}

	s := &Strip[T]{
		name:     name,
		category: category,
		resolver: resolver,
		ctrl:     tabset.NewController(tabset.Options{}),
		drags:    make(map[string]*tabset.Tab),
		label:    func(v T) string { return fmt.Sprintf("%v", v) },
		logger:   logging.NewLogger("sortable").WithField("strip", name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the strip's name.
func (s *Strip[T]) Name() string {
	return s.name
}

// Category implements drop.Target.
func (s *Strip[T]) Category() string {
	return s.category
}

// Controller returns the selection controller of the strip.
func (s *Strip[T]) Controller() *tabset.Controller {
	return s.ctrl
}

// Len returns the number of items.
func (s *Strip[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the items in strip order.
func (s *Strip[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Tab returns the tab of item i, or nil.
func (s *Strip[T]) Tab(i int) *tabset.Tab {
	if i < 0 || i >= len(s.tabs) {
		return nil
	}
	return s.tabs[i]
}

// Tabs returns the tabs in strip order.
func (s *Strip[T]) Tabs() []*tabset.Tab {
	out := make([]*tabset.Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Append adds item at the end and returns its tab.
func (s *Strip[T]) Append(item T) *tabset.Tab {
	return s.insertItem(len(s.items), item, false)
}

// AppendActive adds item at the end and selects it.
func (s *Strip[T]) AppendActive(item T) *tabset.Tab {
	return s.insertItem(len(s.items), item, true)
}

// Insert implements drop.Target. payload is decoded into a fresh T and
// placed at index, clamped to the valid range.
func (s *Strip[T]) Insert(index int, payload json.RawMessage) error {
	var item T
	if err := json.Unmarshal(payload, &item); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidTransfer, "dropped payload does not match strip item type").
			WithDetail("strip", s.name)
	}
	s.insertItem(index, item, false)
	return nil
}

func (s *Strip[T]) insertItem(index int, item T, active bool) *tabset.Tab {
	if index < 0 {
		index = 0
	}
	if index > len(s.items) {
		index = len(s.items)
	}

	tab := tabset.NewTab(s.label(item), item)
	tab.Active = active
	if s.hook != nil {
		s.hook(tab, item)
	}

	var zero T
	s.items = append(s.items, zero)
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = item

	s.tabs = append(s.tabs, nil)
	copy(s.tabs[index+1:], s.tabs[index:])
	s.tabs[index] = tab

	s.ctrl.InsertTab(index, tab)
	return tab
}

// RemoveAt deletes item i. Out of range indexes are ignored.
func (s *Strip[T]) RemoveAt(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	tab := s.tabs[i]
	s.ctrl.RemoveTab(tab)
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
}

// IndexOfTab returns the current index of tab, or -1.
func (s *Strip[T]) IndexOfTab(tab *tabset.Tab) int {
	for i, t := range s.tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

// Click is the user selection path for item i. It reports whether the tab
// became active.
func (s *Strip[T]) Click(i int) bool {
	return s.ctrl.UserSelect(s.Tab(i))
}

// Activate selects item i even when its tab is disabled.
func (s *Strip[T]) Activate(i int) {
	if tab := s.Tab(i); tab != nil {
		s.ctrl.ForceActivate(tab)
	}
}

// MouseEnter sets the hover marker of item i.
func (s *Strip[T]) MouseEnter(i int) {
	if tab := s.Tab(i); tab != nil {
		tab.Markers.Hover = true
	}
}

// MouseLeave clears the hover marker of item i.
func (s *Strip[T]) MouseLeave(i int) {
	if tab := s.Tab(i); tab != nil {
		tab.Markers.Hover = false
	}
}

// DragStart begins dragging item i. The returned session must be passed to
// DragEnd on this strip; the transfer goes to candidate targets.
func (s *Strip[T]) DragStart(ctx context.Context, i int) (*drag.Session, drag.Transfer, error) {
	tab := s.Tab(i)
	if tab == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "drag start index out of range").
			WithDetail("strip", s.name).
			WithDetail("index", i)
	}

	// The original tab is tracked by identity; drops into this same strip
	// may shift its index before drag end.
	source := drag.SourceFunc(func(*drag.Session) error {
		idx := s.IndexOfTab(tab)
		if idx < 0 {
			return nil
		}
		s.RemoveAt(idx)
		return nil
	})

	session, transfer, err := s.resolver.Start(ctx, s.category, source, i, s.items[i])
	if err != nil {
		return nil, nil, err
	}

	tab.Markers.Dragging = true
	s.drags[session.Token] = tab
	return session, transfer, nil
}

// DragEnter marks item i as the current drop candidate. Use an index equal
// to Len() for the empty area after the last tab.
func (s *Strip[T]) DragEnter(ctx context.Context, i int, transfer drag.Transfer) error {
	if tab := s.Tab(i); tab != nil {
		tab.Markers.DragOver = true
	}
	return s.resolver.Enter(ctx, transfer)
}

// DragLeave clears the candidate markers of item i.
func (s *Strip[T]) DragLeave(ctx context.Context, i int, transfer drag.Transfer) error {
	if tab := s.Tab(i); tab != nil {
		tab.Markers.DragOver = false
		tab.Markers.ClearDrop()
	}
	return s.resolver.Leave(ctx, transfer)
}

// DragOver updates the insertion markers of item i and returns the
// placement a drop at point would use.
func (s *Strip[T]) DragOver(i int, rect drop.Rect, point drop.Point) drop.Placement {
	p := s.resolver.Over(rect, point)
	if tab := s.Tab(i); tab != nil {
		tab.Markers.InsertBefore = p == drop.Before
		tab.Markers.InsertAfter = p == drop.After
	}
	return p
}

// Drop delivers transfer onto item i. Dropping past the last tab appends.
// It reports whether an item was inserted.
func (s *Strip[T]) Drop(ctx context.Context, i int, rect drop.Rect, point drop.Point, transfer drag.Transfer) (bool, error) {
	if tab := s.Tab(i); tab != nil {
		tab.Markers.ClearDrop()
	}
	if i > len(s.items) {
		i = len(s.items)
	}
	return s.resolver.Drop(ctx, s, i, rect, point, transfer)
}

// DragEnd finishes a drag started on this strip. The dragged item is removed
// when a drop elsewhere accepted it, and the tab's OnDragEnd fires with the
// outcome either way.
func (s *Strip[T]) DragEnd(ctx context.Context, session *drag.Session) (bool, error) {
	if session == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "drag session is required")
	}

	tab, ok := s.drags[session.Token]
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidInput, "drag session was not started on this strip").
			WithDetail("strip", s.name).
			WithDetail("token", session.Token)
	}
	delete(s.drags, session.Token)

	found, err := s.resolver.End(ctx, session)
	tab.Markers.Dragging = false
	tab.NotifyDragEnd(found)

	s.logger.WithFields(logrus.Fields{
		"token": session.Token,
		"found": found,
	}).Debug("Strip drag ended")
	return found, err
}

// Close tears the strip down: the controller is destroyed and every item is
// removed without reselection.
func (s *Strip[T]) Close() {
	s.ctrl.Destroy()
	for len(s.items) > 0 {
		s.RemoveAt(len(s.items) - 1)
	}
}
