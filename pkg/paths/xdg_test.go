package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabsHomeWins(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TABS_HOME", root)
	t.Setenv("XDG_CONFIG_HOME", "/elsewhere")

	assert.Equal(t, filepath.Join(root, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(root, "state"), StateDir())
	assert.Equal(t, filepath.Join(root, "run"), RuntimeDir())
	assert.Equal(t, filepath.Join(root, "config", "tabs.yml"), ConfigFile())
	assert.Equal(t, filepath.Join(root, "state", "drag.yml"), DragStoreFile())
	assert.Equal(t, filepath.Join(root, "run", "store.pid"), PidFilePath())

	require.NoError(t, EnsureDirs())
	for _, dir := range []string{ConfigDir(), StateDir(), RuntimeDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestXDGVariables(t *testing.T) {
	t.Setenv("TABS_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "")

	assert.Equal(t, "/xdg/config/tabs", ConfigDir())
	assert.Equal(t, "/xdg/state/tabs", StateDir())
	assert.Equal(t, "/xdg/state/tabs", RuntimeDir(), "runtime falls back to state")
	assert.Equal(t, "/xdg/state/tabs/jetstream", JetStreamDir())
}
