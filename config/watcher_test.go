package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchedYAML(category string) []byte {
	return []byte(fmt.Sprintf("version: \"1.0\"\ntabsets:\n  left:\n    category: %s\n    tabs:\n      - label: X\n", category))
}

func TestWatcherReloadsLastWriteOfBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabs.yml")
	require.NoError(t, os.WriteFile(path, watchedYAML("initial"), 0644))

	var mu sync.Mutex
	var reloads []string
	w, err := NewWatcher(path, 50*time.Millisecond, func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		reloads = append(reloads, cfg.Tabsets["left"].Category)
	})
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	w.WithLogger(logger.WithField("component", "config-watcher"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	for _, category := range []string{"first", "second", "final"} {
		require.NoError(t, os.WriteFile(path, watchedYAML(category), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloads) > 0 && reloads[len(reloads)-1] == "final"
	}, 2*time.Second, 10*time.Millisecond)

	var changed bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Config changed: tabs.yml" {
			changed = true
			assert.Equal(t, "config-watcher", entry.Data["component"])
		}
	}
	assert.True(t, changed, "reloads are logged through the supplied logger")
}

func TestWatcherSkipsInvalidWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabs.yml")
	require.NoError(t, os.WriteFile(path, watchedYAML("initial"), 0644))

	reloaded := make(chan string, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(cfg *Config) {
		reloaded <- cfg.Tabsets["left"].Category
	})
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	w.WithLogger(logrus.NewEntry(logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("tabsets: ["), 0644))
	require.Eventually(t, func() bool {
		for _, entry := range hook.AllEntries() {
			if entry.Level == logrus.WarnLevel {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, watchedYAML("fixed"), 0644))
	select {
	case got := <-reloaded:
		assert.Equal(t, "fixed", got)
	case <-time.After(2 * time.Second):
		t.Fatal("valid write was not reloaded")
	}
}

func TestWatcherCloseCancelsPendingReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabs.yml")
	require.NoError(t, os.WriteFile(path, watchedYAML("initial"), 0644))

	var calls int
	w, err := NewWatcher(path, time.Hour, func(*Config) { calls++ })
	require.NoError(t, err)

	w.handleChange()
	require.NoError(t, w.Close())
	w.handleChange()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Nil(t, w.pending)
	assert.Zero(t, calls)
}
