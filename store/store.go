// Package store implements the ephemeral key/value stores that carry a drag's
// "drop accepted" flag from the drop target back to the drag source. Entries
// live for one drag gesture: they are deleted at drag end and expire after a
// TTL when a gesture is abandoned mid-flight.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grovetools/tabs/config"
	"github.com/grovetools/tabs/errors"
)

// Entry is the value stored under a drag token.
type Entry struct {
	DropAreaFound bool `json:"dropareafound"`
}

// Encode serializes the entry to its string transport form.
func (e Entry) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeEntry parses the string transport form of an entry.
func DecodeEntry(raw string) (Entry, error) {
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Store is a transient key/value store addressed by drag token.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry for key. A missing or expired key reports false
	// without an error.
	Get(ctx context.Context, key string) (Entry, bool, error)
	// Set writes the entry for key, resetting its expiry.
	Set(ctx context.Context, key string, e Entry) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the store.
	Close() error
}

// Open builds the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	ttl, err := cfg.TTLDuration()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid store ttl")
	}

	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemory(WithTTL(ttl)), nil
	case config.BackendFile:
		return NewFile(cfg.File.Path, WithTTL(ttl))
	case config.BackendNATS:
		return NewNATS(ctx, cfg.NATS.URL, cfg.NATS.Bucket, ttl)
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown store backend '%s'", cfg.Backend)).
			WithDetail("backend", cfg.Backend)
	}
}

type options struct {
	ttl time.Duration
	now func() time.Time
}

// Option configures the memory and file stores.
type Option func(*options)

// WithTTL sets how long an entry survives without being rewritten.
// A zero or negative TTL disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{ttl: config.DefaultStoreTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) expiry() time.Time {
	if o.ttl <= 0 {
		return time.Time{}
	}
	return o.now().Add(o.ttl)
}

func (o options) expired(at time.Time) bool {
	return !at.IsZero() && !o.now().Before(at)
}
