package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/tabs/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the locations tabs reads and writes.
type PathsOutput struct {
	ConfigFile    string `json:"config_file"`
	StateDir      string `json:"state_dir"`
	DragStoreFile string `json:"drag_store_file"`
	JetStreamDir  string `json:"jetstream_dir"`
	PidFile       string `json:"pid_file"`
}

func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by tabs as JSON",
		Long: `Print the paths used by tabs as JSON.

TABS_HOME relocates everything below one directory; otherwise the XDG
base directory variables apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigFile:    paths.ConfigFile(),
				StateDir:      paths.StateDir(),
				DragStoreFile: paths.DragStoreFile(),
				JetStreamDir:  paths.JetStreamDir(),
				PidFile:       paths.PidFilePath(),
			}

			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
