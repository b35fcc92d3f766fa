package tabset

import (
	"github.com/google/uuid"
)

// Markers are visual state flags a host reads to render a tab. The core sets
// them while pointer and drag events arrive; they never affect the model.
type Markers struct {
	Dragging     bool
	DragOver     bool
	InsertBefore bool
	InsertAfter  bool
	Hover        bool
}

// ClearDrop resets the hover-while-dragging markers.
func (m *Markers) ClearDrop() {
	m.DragOver = false
	m.InsertBefore = false
	m.InsertAfter = false
}

// Tab is one item of a strip.
type Tab struct {
	ID      string
	Label   string
	Content interface{}

	// Active is owned by the Controller once the tab has been added; set it
	// beforehand to have AddTab select the tab.
	Active bool
	// Disabled tabs ignore UserSelect but may still be forced active.
	Disabled bool

	OnSelect   func()
	OnDeselect func()
	OnDragEnd  func(dropAreaFound bool)

	Markers Markers
}

// NewTab creates an inactive tab with a random ID.
func NewTab(label string, content interface{}) *Tab {
	return &Tab{
		ID:      uuid.NewString(),
		Label:   label,
		Content: content,
	}
}

func (t *Tab) notifySelect() {
	if t.OnSelect != nil {
		t.OnSelect()
	}
}

func (t *Tab) notifyDeselect() {
	if t.OnDeselect != nil {
		t.OnDeselect()
	}
}

// NotifyDragEnd fires OnDragEnd if set.
func (t *Tab) NotifyDragEnd(dropAreaFound bool) {
	if t.OnDragEnd != nil {
		t.OnDragEnd(dropAreaFound)
	}
}
