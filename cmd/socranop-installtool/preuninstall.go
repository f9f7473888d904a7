package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socratools/socranop/internal/dbusprobe"
	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/plan"
)

func newPreUninstallCmd(opts *rootOptions) *cobra.Command {
	var sudoScriptPath string

	cmd := &cobra.Command{
		Use:   messages.PreUninstallUse,
		Short: messages.PreUninstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exePath, configHome, err := currentAmbient()
			if err != nil {
				return err
			}
			amb, err := layout.CurrentAmbient(exePath, configHome)
			if err != nil {
				return err
			}
			l, err := layout.Detect(amb)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts, l)
			if err != nil {
				return err
			}
			// Stop a running service before its activation file goes
			// away; afterwards the bus could no longer reach it.
			if !opts.dryRun {
				stopService(cmd)
			}
			part := plan.NewPartitioner(l)
			p := plan.Uninstall(plan.RealSystem{}, messages.PreUninstallUse, l, s.instances, s.table, part)
			if err := s.runPlan(p); err != nil {
				return err
			}
			if err := s.emitSudoScript(sudoScriptPath); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), messages.UninstallServiceStopped)
			return nil
		},
	}

	cmd.Flags().StringVar(&sudoScriptPath, "sudo-script", "", messages.FlagSudoScript)
	return cmd
}

// stopService shuts down a running service instance before uninstall.
// Failures are warnings; the files are removed either way.
func stopService(cmd *cobra.Command) {
	if !sessionBusAvailable() {
		fmt.Fprint(cmd.OutOrStdout(), messages.ProbeSkippedNoSession)
		return
	}
	if err := dbusprobe.New(cmd.OutOrStdout()).StopRunning(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), messages.ProbeWarnFmt, err)
	}
}
