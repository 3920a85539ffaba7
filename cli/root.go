// Package cli holds the genseq commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"genseq/config"
	"genseq/debug"
)

// Commands annotated with annotationConfig: configSkip run on the defaults
// instead of loading the config file.
const (
	annotationConfig = "genseq.config"
	configSkip       = "skip"
)

// app is what every subcommand shares once the root has loaded the config.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "genseq",
		Short: "Euclidean MIDI step sequencer",
		Long: `genseq plays Euclidean rhythms as MIDI notes. One loop owns the
patterns and the clock, the front panel talks to it through a single-slot
command channel, and notes go out over a UART, an OS MIDI port or the log.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if cmd.Annotations[annotationConfig] != configSkip {
				loaded, err := config.Load(a.configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if a.verbose {
				cfg.Log.Level = "debug"
			}
			a.cfg = cfg
			return debug.Init(debug.Options{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				Writer:     cmd.ErrOrStderr(),
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Close()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: ~/.config/genseq/config.yaml)")

	root.AddCommand(a.runCmd())
	root.AddCommand(a.portsCmd())
	root.AddCommand(a.euclidCmd())
	root.AddCommand(a.configCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logFile is where the front panel sends the log when none is configured,
// since the terminal belongs to the panel.
func logFile() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "genseq.log")
	}
	return filepath.Join(dir, "genseq.log")
}
