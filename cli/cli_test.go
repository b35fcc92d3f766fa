package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/tabs/config"
	"github.com/grovetools/tabs/errors"
	"github.com/grovetools/tabs/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, root *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestGetOptions(t *testing.T) {
	root := NewStandardCommand("tabs", "Sortable tab strips")
	var got CommandOptions
	root.RunE = func(cmd *cobra.Command, args []string) error {
		got = GetOptions(cmd)
		return nil
	}

	runRoot(t, root, "-v", "--json", "-c", "x.yml")
	assert.Equal(t, CommandOptions{ConfigFile: "x.yml", Verbose: true, JSONOutput: true}, got)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabs.yml")
	require.NoError(t, os.WriteFile(path, []byte("tabsets:\n  left:\n    category: c\n"), 0644))

	root := NewStandardCommand("tabs", "Sortable tab strips")
	var cfg *config.Config
	var loadedFrom string
	root.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, loadedFrom, err = LoadConfig(cmd)
		return err
	}

	runRoot(t, root, "--config", path)
	assert.Equal(t, path, loadedFrom)
	assert.Equal(t, "c", cfg.Tabsets["left"].Category)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)

	root.SetArgs([]string{"--config", filepath.Join(dir, "missing.yml")})
	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("tabs", "Sortable tab strips")
	root.AddCommand(NewVersionCommand("tabs"))

	out := runRoot(t, root, "version", "--json")
	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.GetInfo().Version, info.Version)

	root = NewStandardCommand("tabs", "Sortable tab strips")
	root.AddCommand(NewVersionCommand("tabs"))
	out = runRoot(t, root, "version")
	assert.Contains(t, out, "tabs "+version.GetInfo().Version)
	assert.Contains(t, out, "Go Version:")
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("tabs", "Sortable tab strips")
	root.AddCommand(NewVersionCommand("tabs"))

	out := runRoot(t, root, "--help")
	assert.Contains(t, out, "TABS")
	assert.Contains(t, out, "COMMANDS")
	assert.Contains(t, out, "version")
	assert.Contains(t, out, "--config")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", errors.ConfigNotFound("tabs.yml"), "Configuration not found"},
		{"invalid", errors.ConfigInvalid("bad"), "tabs config validate"},
		{"category", errors.CategoryMissing("left"), "needs a category"},
		{"store", errors.StoreUnavailable("nats", stderrors.New("refused")), "tabs store serve"},
		{"plain", stderrors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			h := &ErrorHandler{Out: &out}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, out.String(), tt.want)
		})
	}

	var out bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &out}
	h.Handle(errors.ConfigNotFound("tabs.yml"))
	assert.Contains(t, out.String(), `"code": "CONFIG_NOT_FOUND"`)
	assert.Nil(t, h.Handle(nil))
}

func TestProfiler(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "mem.out")

	root := NewStandardCommand("tabs", "Sortable tab strips")
	(&Profiler{}).AddFlags(root)
	root.RunE = func(cmd *cobra.Command, args []string) error { return nil }

	out := runRoot(t, root, "--cpu-profile", cpu, "--mem-profile", mem)
	assert.Contains(t, out, "CPU profile written to "+cpu)
	assert.Contains(t, out, "Memory profile written to "+mem)
	for _, path := range []string{cpu, mem} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
