package store

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/grovetools/tabs/errors"
	"github.com/grovetools/tabs/logging"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// NATS stores entries in a JetStream key/value bucket so strips running in
// different processes or on different hosts see each other's drops. The
// bucket TTL expires abandoned entries server-side.
type NATS struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	logger *logrus.Entry
}

// NewNATS connects to url and creates (or updates) bucket. Extra nats.Option
// values are appended to the defaults.
func NewNATS(ctx context.Context, url, bucket string, ttl time.Duration, opts ...nats.Option) (*NATS, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("nats store requires a url")
	}
	if bucket == "" {
		bucket = "tabs-drag"
	}

	logger := logging.NewLogger("store.nats")
	defaults := []nats.Option{
		nats.Name("tabs-drag-store"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("Disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("Reconnected to NATS")
		}),
	}

	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, errors.StoreUnavailable("nats", fmt.Errorf("connecting to NATS at %s: %w", url, err))
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, errors.StoreUnavailable("nats", fmt.Errorf("creating JetStream context: %w", err))
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "drop acceptance flags for in-flight tab drags",
		History:     1,
		TTL:         ttl,
		Storage:     jetstream.MemoryStorage,
	})
	if err != nil {
		nc.Close()
		return nil, errors.StoreUnavailable("nats", fmt.Errorf("creating bucket %s: %w", bucket, err))
	}

	logger.WithFields(logrus.Fields{"bucket": bucket, "ttl": ttl}).Debug("NATS drag store ready")
	return &NATS{conn: nc, kv: kv, logger: logger}, nil
}

// Get implements Store.
func (s *NATS) Get(ctx context.Context, key string) (Entry, bool, error) {
	kve, err := s.kv.Get(ctx, key)
	if err != nil {
		if goerrors.Is(err, jetstream.ErrKeyNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, errors.StoreUnavailable("nats", err).WithDetail("key", key)
	}

	e, err := DecodeEntry(string(kve.Value()))
	if err != nil {
		return Entry{}, false, errors.StoreCodec(key, err)
	}
	return e, true, nil
}

// Set implements Store.
func (s *NATS) Set(ctx context.Context, key string, e Entry) error {
	raw, err := e.Encode()
	if err != nil {
		return errors.StoreCodec(key, err)
	}
	if _, err := s.kv.Put(ctx, key, []byte(raw)); err != nil {
		return errors.StoreUnavailable("nats", err).WithDetail("key", key)
	}
	return nil
}

// Delete implements Store.
func (s *NATS) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil && !goerrors.Is(err, jetstream.ErrKeyNotFound) {
		return errors.StoreUnavailable("nats", err).WithDetail("key", key)
	}
	return nil
}

// Close implements Store.
func (s *NATS) Close() error {
	s.conn.Close()
	return nil
}
