package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socratools/socranop/internal/dbusprobe"
	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/pkginfo"
	"github.com/socratools/socranop/internal/plan"
)

func newPostInstallCmd(opts *rootOptions) *cobra.Command {
	var noLaunch bool
	var sudoScriptPath string

	cmd := &cobra.Command{
		Use:   messages.PostInstallUse,
		Short: messages.PostInstallShort,
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
			// An old service instance keeps serving stale paths until it
			// is shut down, so stop it before the files change.
			if !noLaunch && !opts.dryRun {
				stopService(cmd)
			}
			part := plan.NewPartitioner(l)
			p := plan.Install(plan.RealSystem{}, messages.PostInstallUse, l, s.instances, s.table, part)
			if err := s.runPlan(p); err != nil {
				return err
			}
			if err := s.emitSudoScript(sudoScriptPath); err != nil {
				return err
			}
			if !noLaunch && !opts.dryRun {
				probeService(cmd)
			}
			fmt.Fprintf(cmd.OutOrStdout(), messages.InstallDoneFmt, pkginfo.ExeCLI, pkginfo.ExeGUI)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, messages.FlagNoLaunch)
	cmd.Flags().StringVar(&sudoScriptPath, "sudo-script", "", messages.FlagSudoScript)
	return cmd
}

// probeService starts the session service through bus activation as an
// end-to-end check of the freshly installed files. Every failure is a
// warning; the install itself already succeeded.
func probeService(cmd *cobra.Command) {
	if !sessionBusAvailable() {
		fmt.Fprint(cmd.OutOrStdout(), messages.ProbeSkippedNoSession)
		return
	}
	if err := dbusprobe.New(cmd.OutOrStdout()).Start(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), messages.ProbeWarnFmt, err)
	}
}
