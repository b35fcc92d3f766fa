// Package cmd implements the tabs command line.
package cmd

import (
	"github.com/grovetools/tabs/cli"
	"github.com/grovetools/tabs/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the tabs command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("tabs", "Sortable tab strips with cross-strip drag and drop")
	cli.SetVersionTemplate(root, version.GetInfo())
	(&cli.Profiler{}).AddFlags(root)

	root.AddCommand(cli.NewVersionCommand("tabs"))
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewStoreCmd())
	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewPathsCmd())

	return root
}
