// Package paths provides XDG-compliant path resolution for tabs.
//
// Resolution order:
// 1. TABS_HOME (portable root) → $TABS_HOME/{config,state,run}
// 2. XDG env vars → $XDG_*_HOME/tabs
// 3. Platform defaults → ~/.config/tabs, ~/.local/state/tabs
package paths

import (
	"os"
	"path/filepath"
)

const appName = "tabs"

// home resolves one base directory: the TABS_HOME subdirectory, then the XDG
// variable, then the fallback below the user's home.
func home(sub, xdgVar string, fallback ...string) string {
	if root := os.Getenv("TABS_HOME"); root != "" {
		return filepath.Join(root, sub)
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{homeDir}, append(fallback, appName)...)...)
	}
	return ""
}

// ConfigDir returns the directory searched for tabs.yml after the project tree.
func ConfigDir() string {
	return home("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for runtime state: the shared drag file,
// logs and the store server's JetStream data.
func StateDir() string {
	return home("state", "XDG_STATE_HOME", ".local", "state")
}

// RuntimeDir returns the directory for pid files.
// Uses XDG_RUNTIME_DIR when available, falls back to StateDir.
func RuntimeDir() string {
	if root := os.Getenv("TABS_HOME"); root != "" {
		return filepath.Join(root, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// ConfigFile returns the user-level configuration file.
func ConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "tabs.yml")
}

// DragStoreFile is the default file of the file store backend.
func DragStoreFile() string {
	return filepath.Join(StateDir(), "drag.yml")
}

// JetStreamDir is where `tabs store serve` keeps JetStream data.
func JetStreamDir() string {
	return filepath.Join(StateDir(), "jetstream")
}

// PidFilePath returns the pid file of `tabs store serve`.
func PidFilePath() string {
	return filepath.Join(RuntimeDir(), "store.pid")
}

// EnsureDirs creates the tabs directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), RuntimeDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
