package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// Profiler adds --cpu-profile and --mem-profile to a command tree.
type Profiler struct {
	cpuFile *os.File
	cpuPath string
	memPath string
}

// AddFlags registers the profiling flags as persistent flags of cmd and
// installs the start/stop hooks.
func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuPath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memPath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentPreRunE = p.Start
	cmd.PersistentPostRunE = p.Stop
}

// Start begins CPU profiling when requested.
func (p *Profiler) Start(cmd *cobra.Command, args []string) error {
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

// Stop writes the requested profiles.
func (p *Profiler) Stop(cmd *cobra.Command, args []string) error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
		fmt.Fprintf(cmd.ErrOrStderr(), "CPU profile written to %s\n", p.cpuPath)
	}

	if p.memPath == "" {
		return nil
	}
	f, err := os.Create(p.memPath)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Memory profile written to %s\n", p.memPath)
	return nil
}
