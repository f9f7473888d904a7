package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/terminal"
)

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose bool
	dryRun  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !terminal.IsInteractive() {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, messages.FlagVerbose)
	cmd.PersistentFlags().BoolVarP(&opts.dryRun, "dry-run", "n", false, messages.FlagDryRun)

	cmd.AddCommand(newPostInstallCmd(opts))
	cmd.AddCommand(newPreUninstallCmd(opts))
	cmd.AddCommand(newBuildInstallCmd(opts))
	return cmd
}

// currentAmbient captures the running process state the layout resolver
// consults. exePathFunc is overridable in tests.
var exePathFunc = os.Executable

func currentAmbient() (exePath string, configHome string, err error) {
	exePath, err = exePathFunc()
	if err != nil {
		return "", "", err
	}
	return exePath, os.Getenv("XDG_CONFIG_HOME"), nil
}
