package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tabs/cli"
	"github.com/grovetools/tabs/config"
	"github.com/grovetools/tabs/drop"
	"github.com/grovetools/tabs/metrics"
	"github.com/grovetools/tabs/sortable"
	"github.com/grovetools/tabs/store"
	"github.com/grovetools/tabs/tabset"
	"github.com/grovetools/tabs/tui"
	"github.com/grovetools/tabs/tui/board"
	"github.com/grovetools/tabs/tui/components/tabstrip"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// defaultTabsets is shown when no configuration declares any strips.
var defaultTabsets = map[string]config.TabsetConfig{
	"backlog": {
		Category: "tasks",
		Type:     "tabs",
		Tabs: []config.TabConfig{
			{Label: "parser", Content: "Rewrite the tokenizer."},
			{Label: "cache", Content: "Bound the LRU.", Active: true},
			{Label: "docs", Content: "Document the config keys."},
		},
	},
	"doing": {
		Category: "tasks",
		Type:     "pills",
		Tabs: []config.TabConfig{
			{Label: "release", Content: "Tag v0.2."},
		},
	},
	"notes": {
		Category: "notes",
		Type:     "tabs",
		Tabs: []config.TabConfig{
			{Label: "ideas", Content: "Drop tasks here: the category differs."},
			{Label: "archived", Content: "Disabled tabs ignore clicks.", Disabled: true},
		},
	},
}

// StripOptions converts a tabset declaration to controller options.
func StripOptions(ts config.TabsetConfig) tabset.Options {
	return tabset.Options{Type: ts.Type, Vertical: ts.Vertical, Justified: ts.Justified}
}

// BuildStrips creates one strip per tabset, ordered by name, all sharing
// resolver. Tabs marked active are force-activated after seeding.
func BuildStrips(tabsets map[string]config.TabsetConfig, resolver *drop.Resolver) ([]*sortable.Strip[tabstrip.Item], error) {
	names := make([]string, 0, len(tabsets))
	for name := range tabsets {
		names = append(names, name)
	}
	sort.Strings(names)

	strips := make([]*sortable.Strip[tabstrip.Item], 0, len(names))
	for _, name := range names {
		ts := tabsets[name]
		s, err := sortable.New[tabstrip.Item](name, ts.Category, resolver,
			sortable.WithLabel(tabstrip.Label),
			sortable.WithTabHook(tabstrip.DisableHook),
			sortable.WithOptions[tabstrip.Item](StripOptions(ts)),
		)
		if err != nil {
			return nil, err
		}

		active := -1
		for i, tc := range ts.Tabs {
			s.Append(tabstrip.Item{Title: tc.Label, Body: tc.Content, Disabled: tc.Disabled})
			if tc.Active {
				active = i
			}
		}
		if active >= 0 {
			s.Activate(active)
		}
		strips = append(strips, s)
	}
	return strips, nil
}

// NewDemoCmd returns the interactive board command.
func NewDemoCmd() *cobra.Command {
	var metricsAddr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Drag tabs between strips in the terminal",
		Long: `Opens a board with the tabsets declared in tabs.yml, or a built-in set
when none are declared. Drag a tab with the mouse to reorder it or to move
it to another strip of the same category.`,
		Example: `# Built-in strips
tabs demo

# Expose drag counters for Prometheus
tabs demo --metrics-addr 127.0.0.1:9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd, "demo")
			cfg, path, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			tabsets := cfg.Tabsets
			if len(tabsets) == 0 {
				tabsets = defaultTabsets
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			rec := metrics.NewRecorder()
			if metricsAddr != "" {
				go func() {
					if err := rec.Serve(ctx, metricsAddr, "/metrics"); err != nil {
						logger.WithError(err).Error("Metrics server failed")
					}
				}()
			}

			resolver := drop.NewResolver(st, drop.WithRecorder(rec), drop.WithLogger(logger))
			strips, err := BuildStrips(tabsets, resolver)
			if err != nil {
				return err
			}
			views := make([]tabstrip.Model, 0, len(strips))
			for _, s := range strips {
				views = append(views, tabstrip.New(s))
			}

			var keys board.Overrides
			if err := cfg.UnmarshalExtension("keys", &keys); err != nil {
				return err
			}
			model := board.New(ctx, views...)
			model.Keys = model.Keys.WithOverrides(keys)

			tui.InitializeTUI()
			p := tui.NewProgram(model, tea.WithContext(ctx))

			if watch && path != "" {
				w, err := config.NewWatcher(path, 200*time.Millisecond, func(next *config.Config) {
					p.Send(optionsFor(next))
				})
				if err != nil {
					logger.WithError(err).Warn("Config watching disabled")
				} else {
					defer w.Close()
					w.WithLogger(cli.GetLogger(cmd, "config-watcher").WithField("path", path))
					go w.Start(ctx)
				}
			}

			logger.WithFields(logrus.Fields{
				"strips":  len(strips),
				"backend": backendName(cfg.Store),
			}).Debug("Starting board")

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running board: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&watch, "watch", true, "Apply tabset option changes from the config file while running")

	return cmd
}

func optionsFor(cfg *config.Config) board.OptionsMsg {
	msg := make(board.OptionsMsg, len(cfg.Tabsets))
	for name, ts := range cfg.Tabsets {
		msg[name] = StripOptions(ts)
	}
	return msg
}
