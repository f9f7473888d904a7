package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/plan"
)

// ErrInvalidArguments is returned when the staging flags are missing or
// contradictory.
var ErrInvalidArguments = errors.New(messages.BuildInstallFlagConflict)

func newBuildInstallCmd(opts *rootOptions) *cobra.Command {
	var chroot string
	var forcePrefix bool

	cmd := &cobra.Command{
		Use:   messages.BuildInstallUse,
		Short: messages.BuildInstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (chroot != "") == forcePrefix {
				return ErrInvalidArguments
			}
			exePath, configHome, err := currentAmbient()
			if err != nil {
				return err
			}
			amb, err := layout.CurrentAmbient(exePath, configHome)
			if err != nil {
				return err
			}
			var l layout.Layout
			if chroot != "" {
				if opts.verbose {
					fmt.Fprintf(cmd.OutOrStdout(), messages.UsingChrootFmt, chroot)
				}
				l, err = layout.Staged(amb, chroot)
			} else {
				l, err = layout.Forced(amb)
			}
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts, l)
			if err != nil {
				return err
			}
			part := plan.NewPartitioner(l)
			if err := s.runPlan(plan.Install(plan.RealSystem{}, messages.BuildInstallUse, l, s.instances, s.table, part)); err != nil {
				return err
			}

			// Package builds get no sudo script; the postinst/postrm
			// hooks of the package run the device rescan instead.
			fmt.Fprint(cmd.OutOrStdout(), messages.TriggerHookHeader)
			fmt.Fprintln(cmd.OutOrStdout(), s.table.TriggerCommands())

			// Stripping the installtool's own files comes strictly
			// last, after every other artifact is in place.
			fmt.Fprint(cmd.OutOrStdout(), messages.RemoveSelfHeader)
			return s.runPlan(plan.RemoveSelf(l, s.instances))
		},
	}

	cmd.Flags().StringVar(&chroot, "chroot", "", messages.FlagChroot)
	cmd.Flags().BoolVar(&forcePrefix, "force-prefix", false, messages.FlagForcePrefix)
	return cmd
}
