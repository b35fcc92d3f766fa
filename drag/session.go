// Package drag defines the value objects of one drag gesture: the session
// created at drag start, its correlation token, and the transfer payload
// handed to drop targets.
package drag

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/grovetools/tabs/errors"
)

// State is the lifecycle position of a drag gesture.
type State int

const (
	Idle State = iota
	Dragging
	Accepted
	Rejected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source is the collection a drag started from. The session keeps a direct
// reference so drag end can remove the original item without the drop
// target knowing anything about it.
type Source interface {
	// RemoveDragged removes the item s was started from.
	RemoveDragged(s *Session) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(s *Session) error

// RemoveDragged implements Source.
func (f SourceFunc) RemoveDragged(s *Session) error {
	return f(s)
}

// Session is one in-flight drag.
type Session struct {
	Token       string
	Category    string
	SourceIndex int
	// Payload is a deep copy of the dragged item, independent of the
	// source collection's own value.
	Payload json.RawMessage

	state  State
	source Source
}

// NewSession captures a drag of item at index in a strip tagged category.
// It fails with CATEGORY_MISSING or NO_COLLECTION when the strip is not
// wired for dragging.
func NewSession(category string, index int, item interface{}, src Source) (*Session, error) {
	if category == "" {
		return nil, errors.New(errors.ErrCodeCategoryMissing, "drag session requires a category tag")
	}
	if src == nil {
		return nil, errors.NoCollection(fmt.Sprintf("#%d", index))
	}
	if index < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag source index must not be negative").
			WithDetail("index", index)
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "dragged item is not serializable").
			WithDetail("index", index)
	}

	token, err := NewToken()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to generate drag token")
	}

	return &Session{
		Token:       token,
		Category:    category,
		SourceIndex: index,
		Payload:     payload,
		state:       Dragging,
		source:      src,
	}, nil
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Finish records the outcome observed at drag end. Only a Dragging session
// changes state; later calls are ignored.
func (s *Session) Finish(accepted bool) {
	if s.state != Dragging {
		return
	}
	if accepted {
		s.state = Accepted
	} else {
		s.state = Rejected
	}
}

// Source returns the collection the drag started from.
func (s *Session) Source() Source {
	return s.source
}

// Transfer builds the payload handed to drop targets.
func (s *Session) Transfer() Transfer {
	return Transfer{
		KeyIndex:    strconv.Itoa(s.SourceIndex),
		KeyCategory: s.Category,
		KeyJSON:     string(s.Payload),
		KeyToken:    s.Token,
	}
}

// Decode unmarshals a fresh copy of the payload into v.
func (s *Session) Decode(v interface{}) error {
	return json.Unmarshal(s.Payload, v)
}
