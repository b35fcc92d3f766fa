package store

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/tabs/errors"
)

type record struct {
	raw     string
	expires time.Time
}

// Memory is an in-process store. Several strips in one process (one
// terminal, one window manager) share a single Memory.
type Memory struct {
	mu      sync.RWMutex
	opts    options
	records map[string]record
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:    buildOptions(opts),
		records: make(map[string]record),
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	rec, ok := m.records[key]
	m.mu.RUnlock()

	if !ok {
		return Entry{}, false, nil
	}
	if m.opts.expired(rec.expires) {
		m.mu.Lock()
		if cur, still := m.records[key]; still && cur.expires.Equal(rec.expires) {
			delete(m.records, key)
		}
		m.mu.Unlock()
		return Entry{}, false, nil
	}

	e, err := DecodeEntry(rec.raw)
	if err != nil {
		return Entry{}, false, errors.StoreCodec(key, err)
	}
	return e, true, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key string, e Entry) error {
	raw, err := e.Encode()
	if err != nil {
		return errors.StoreCodec(key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = record{raw: raw, expires: m.opts.expiry()}
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, rec := range m.records {
		if m.opts.expired(rec.expires) {
			delete(m.records, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]record)
	return nil
}
