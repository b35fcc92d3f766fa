// Package drop implements the drag protocol between strips: the drag source
// registers a token in the ephemeral store, candidate drop targets flip the
// token's dropAreaFound flag, and the source's drag end reads the flag to
// decide whether to remove its own item.
//
// Source and target never hold references to each other. The only shared
// state is the store entry addressed by the drag token, so the two sides may
// live in different strips, processes or windows.
package drop

import (
	"context"
	"encoding/json"

	"github.com/grovetools/tabs/drag"
	"github.com/grovetools/tabs/errors"
	"github.com/grovetools/tabs/logging"
	"github.com/grovetools/tabs/store"
	"github.com/sirupsen/logrus"
)

// Target is a collection that can receive a dropped payload.
type Target interface {
	// Category is the target's category tag. Only payloads with an equal tag
	// are inserted.
	Category() string
	// Insert adds a decoded copy of payload at index.
	Insert(index int, payload json.RawMessage) error
}

// Recorder observes protocol outcomes. The metrics package provides a
// Prometheus implementation.
type Recorder interface {
	DragStarted(category string)
	Dropped(category string, inserted bool)
	DragEnded(category string, found bool)
	StoreFailed(op string)
}

type nopRecorder struct{}

func (nopRecorder) DragStarted(string)     {}
func (nopRecorder) Dropped(string, bool)   {}
func (nopRecorder) DragEnded(string, bool) {}
func (nopRecorder) StoreFailed(string)     {}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger replaces the default "drop" component logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithRecorder attaches an outcome recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// Resolver runs the drag protocol against one store. A single Resolver is
// shared by every strip that should exchange tabs.
type Resolver struct {
	store    store.Store
	logger   *logrus.Entry
	recorder Recorder
}

// NewResolver creates a Resolver backed by st.
func NewResolver(st store.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:    st,
		logger:   logging.NewLogger("drop"),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the backing store.
func (r *Resolver) Store() store.Store {
	return r.store
}

// Start begins a drag of item at index in a strip tagged category. It
// registers a fresh token with dropAreaFound=false and returns the session
// with the transfer payload to hand to drop targets.
func (r *Resolver) Start(ctx context.Context, category string, src drag.Source, index int, item interface{}) (*drag.Session, drag.Transfer, error) {
	session, err := drag.NewSession(category, index, item, src)
	if err != nil {
		return nil, nil, err
	}

	if err := r.store.Set(ctx, session.Token, store.Entry{DropAreaFound: false}); err != nil {
		r.recorder.StoreFailed("start")
		return nil, nil, err
	}

	r.recorder.DragStarted(category)
	r.logger.WithFields(logrus.Fields{
		"token":    session.Token,
		"category": category,
		"index":    index,
	}).Debug("Drag started")

	return session, session.Transfer(), nil
}

// Enter marks the drag identified by transfer as over a drop area.
func (r *Resolver) Enter(ctx context.Context, transfer drag.Transfer) error {
	return r.setFound(ctx, "enter", transfer.Token(), true)
}

// Leave clears the drop area flag set by Enter.
func (r *Resolver) Leave(ctx context.Context, transfer drag.Transfer) error {
	return r.setFound(ctx, "leave", transfer.Token(), false)
}

// setFound updates an existing entry. Unknown tokens are ignored so a stray
// event after drag end cannot resurrect an entry.
func (r *Resolver) setFound(ctx context.Context, op, token string, found bool) error {
	if token == "" {
		return nil
	}

	_, ok, err := r.store.Get(ctx, token)
	if err != nil {
		r.recorder.StoreFailed(op)
		return err
	}
	if !ok {
		r.logger.WithFields(logrus.Fields{"token": token, "op": op}).Debug("Ignoring event for unknown drag")
		return nil
	}

	if err := r.store.Set(ctx, token, store.Entry{DropAreaFound: found}); err != nil {
		r.recorder.StoreFailed(op)
		return err
	}

	r.logger.WithFields(logrus.Fields{"token": token, "found": found}).Debugf("Drag %s", op)
	return nil
}

// Over reports where a drop at point would land relative to rect. It has no
// side effects; hosts use it to draw insertion markers.
func (r *Resolver) Over(rect Rect, point Point) Placement {
	return Place(rect, point)
}

// Drop delivers the dragged payload to target. The insertion index is
// targetIndex when point is left of rect's midpoint and targetIndex+1
// otherwise. An invalid transfer or a category mismatch changes nothing and
// is not an error; in that case the drag is marked as not dropped so the
// source keeps its item. It reports whether the payload was inserted.
func (r *Resolver) Drop(ctx context.Context, target Target, targetIndex int, rect Rect, point Point, transfer drag.Transfer) (bool, error) {
	if target == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "drop target is required")
	}

	log := r.logger.WithFields(logrus.Fields{
		"token":    transfer.Token(),
		"category": transfer.Category(),
		"target":   target.Category(),
	})

	if err := transfer.Validate(); err != nil {
		log.WithError(err).Debug("Ignoring drop with invalid transfer")
		r.recorder.Dropped(transfer.Category(), false)
		return false, r.setFound(ctx, "drop", transfer.Token(), false)
	}

	if transfer.Category() != target.Category() {
		log.Debug("Ignoring drop from another category")
		r.recorder.Dropped(transfer.Category(), false)
		return false, r.setFound(ctx, "drop", transfer.Token(), false)
	}

	index := InsertIndex(targetIndex, Place(rect, point))
	payload, _ := transfer.Payload()

	if err := target.Insert(index, payload); err != nil {
		r.recorder.Dropped(transfer.Category(), false)
		if ferr := r.setFound(ctx, "drop", transfer.Token(), false); ferr != nil {
			log.WithError(ferr).Warn("Failed to clear drop flag after rejected insert")
		}
		return false, err
	}

	r.recorder.Dropped(transfer.Category(), true)
	log.WithField("index", index).Debug("Payload dropped")

	// The pointer is inside the target at release, so the flag is normally
	// already set by Enter. Setting it here covers hosts that skip enter.
	return true, r.setFound(ctx, "drop", transfer.Token(), true)
}

// End finishes the drag. When the store reports dropAreaFound the source
// item is removed through the session's source. The entry is deleted either
// way. A missing entry counts as not found. Store failures are returned
// with found=false and nothing is removed.
func (r *Resolver) End(ctx context.Context, session *drag.Session) (bool, error) {
	if session == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "drag session is required")
	}

	log := r.logger.WithFields(logrus.Fields{
		"token":    session.Token,
		"category": session.Category,
		"index":    session.SourceIndex,
	})

	entry, ok, err := r.store.Get(ctx, session.Token)
	if err != nil {
		r.recorder.StoreFailed("end")
		log.WithError(err).Warn("Failed to read drag entry, keeping source item")
		session.Finish(false)
		r.recorder.DragEnded(session.Category, false)
		return false, err
	}

	found := ok && entry.DropAreaFound

	var removeErr error
	if found {
		if removeErr = session.Source().RemoveDragged(session); removeErr != nil {
			log.WithError(removeErr).Warn("Failed to remove dragged item from source")
		}
	}

	if err := r.store.Delete(ctx, session.Token); err != nil {
		r.recorder.StoreFailed("end")
		log.WithError(err).Debug("Failed to delete drag entry, leaving it to expire")
	}

	session.Finish(found)
	r.recorder.DragEnded(session.Category, found)
	log.WithField("found", found).Debug("Drag ended")

	return found, removeErr
}
