package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/grovetools/tabs/errors"
	"gopkg.in/yaml.v3"
)

// fileRecord is the on-disk form of one entry.
type fileRecord struct {
	Value   string    `yaml:"value"`
	Expires time.Time `yaml:"expires,omitempty"`
}

// File is a store backed by a YAML file, shared by processes on one host.
// Every operation re-reads the file so writes from other processes are seen;
// writes go through a temp file and rename so readers never see a torn file.
// Each read-modify-write holds an exclusive lock on the sidecar "<path>.lock",
// which serialises all processes sharing path.
type File struct {
	mu   sync.Mutex
	lock *flock.Flock
	path string
	opts options
}

// NewFile creates a file store at path. The file is created lazily on the
// first write.
func NewFile(path string, opts ...Option) (*File, error) {
	if path == "" {
		return nil, errors.ConfigInvalid("file store requires a path")
	}
	return &File{
		lock: flock.New(path + ".lock"),
		path: path,
		opts: buildOptions(opts),
	}, nil
}

// locked runs fn while holding the in-process mutex and the cross-process
// file lock. flock.Flock is reentrant per instance, so the mutex is still
// needed between goroutines.
func (f *File) locked(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.StoreUnavailable("file", fmt.Errorf("create store directory: %w", err))
	}
	if err := f.lock.Lock(); err != nil {
		return errors.StoreUnavailable("file", fmt.Errorf("lock store file: %w", err))
	}
	defer f.lock.Unlock()

	return fn()
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// load reads the state file. A missing file is an empty store.
func (f *File) load() (map[string]fileRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]fileRecord), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var records map[string]fileRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if records == nil {
		records = make(map[string]fileRecord)
	}
	return records, nil
}

// save drops expired records and writes the rest atomically.
func (f *File) save(records map[string]fileRecord) error {
	for key, rec := range records {
		if f.opts.expired(rec.Expires) {
			delete(records, key)
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tabs-store-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Get implements Store.
func (f *File) Get(_ context.Context, key string) (Entry, bool, error) {
	var (
		e     Entry
		found bool
	)
	err := f.locked(func() error {
		records, err := f.load()
		if err != nil {
			return errors.StoreUnavailable("file", err)
		}

		rec, ok := records[key]
		if !ok || f.opts.expired(rec.Expires) {
			return nil
		}

		e, err = DecodeEntry(rec.Value)
		if err != nil {
			return errors.StoreCodec(key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return e, found, nil
}

// Set implements Store.
func (f *File) Set(_ context.Context, key string, e Entry) error {
	raw, err := e.Encode()
	if err != nil {
		return errors.StoreCodec(key, err)
	}

	return f.locked(func() error {
		records, err := f.load()
		if err != nil {
			return errors.StoreUnavailable("file", err)
		}
		records[key] = fileRecord{Value: raw, Expires: f.opts.expiry()}
		if err := f.save(records); err != nil {
			return errors.StoreUnavailable("file", err)
		}
		return nil
	})
}

// Delete implements Store.
func (f *File) Delete(_ context.Context, key string) error {
	return f.locked(func() error {
		records, err := f.load()
		if err != nil {
			return errors.StoreUnavailable("file", err)
		}
		if _, ok := records[key]; !ok {
			return nil
		}
		delete(records, key)
		if err := f.save(records); err != nil {
			return errors.StoreUnavailable("file", err)
		}
		return nil
	})
}

// Close implements Store. The file is left in place for other processes.
func (f *File) Close() error {
	return nil
}
