package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand
type options struct {
	debug     bool
	configDir string
	graphPath string
}

// resolveConfigDir returns the config dir flag, or <user config dir>/worldinput
func (o *options) resolveConfigDir() (string, error) {
	if o.configDir != "" {
		return o.configDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "worldinput"), nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var logFile *os.File

	root := &cobra.Command{
		Use:   "worldinput",
		Short: "3D world input state machine and CAVE projection tools",
		Long: `worldinput - input state machine and CAVE projection tools

Commands:
  monitor   Run the input machine interactively in the terminal
  bindings  Inspect and edit key bindings (bindings.ini)
  cave      Manage CAVE view calibrations and compute projections`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(opts.debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
	}

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write debug log to logs/worldinput.log")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "Config directory (default <user config>/worldinput)")
	root.PersistentFlags().StringVar(&opts.graphPath, "graph", "", "Input machine graph TOML overriding the embedded one")

	root.AddCommand(newMonitorCmd(opts))
	root.AddCommand(newBindingsCmd(opts))
	root.AddCommand(newCaveCmd(opts))
	return root
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nworldinput crashed: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
