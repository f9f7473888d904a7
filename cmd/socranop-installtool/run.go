package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratools/socranop/internal/catalog"
	"github.com/socratools/socranop/internal/devices"
	"github.com/socratools/socranop/internal/fsutil"
	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/pkginfo"
	"github.com/socratools/socranop/internal/plan"
	"github.com/socratools/socranop/internal/render"
	"github.com/socratools/socranop/internal/sudoscript"
)

// session binds one resolved layout to the expanded artifact catalog and
// the sudo script collected while executing plans against it.
type session struct {
	cmd       *cobra.Command
	opts      *rootOptions
	layout    layout.Layout
	table     devices.Table
	instances []catalog.Instance
	script    *sudoscript.Script
}

func newSession(cmd *cobra.Command, opts *rootOptions, l layout.Layout) (*session, error) {
	table, err := devices.Load()
	if err != nil {
		return nil, err
	}
	ctx := render.NewContext(l, pkginfo.Package, pkginfo.Version, pkginfo.ApplicationID, pkginfo.BusName)
	specs, err := catalog.Specs(table)
	if err != nil {
		return nil, err
	}
	instances, err := catalog.Expand(specs, l, ctx)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		fmt.Fprintf(cmd.OutOrStdout(), messages.UsingLayoutFmt, l)
	}
	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString(messages.DryRunHeader))
	}
	return &session{
		cmd:       cmd,
		opts:      opts,
		layout:    l,
		table:     table,
		instances: instances,
		script:    &sudoscript.Script{},
	}, nil
}

// runPlan executes one plan and reports the outcome. The table is only
// printed for verbose and dry runs; quiet real runs get the summary line.
func (s *session) runPlan(p plan.Plan) error {
	e := &plan.Executor{
		Sys:     plan.RealSystem{},
		Script:  s.script,
		DryRun:  s.opts.dryRun,
		Verbose: s.opts.verbose,
		Out:     s.cmd.OutOrStdout(),
	}
	results, err := e.Run(p)
	if err != nil {
		plan.ReportAborted(s.cmd.ErrOrStderr(), results)
		return err
	}
	plan.Report(s.cmd.OutOrStdout(), p, results, s.opts.verbose || s.opts.dryRun)
	return nil
}

// emitSudoScript hands the collected privileged commands to the user:
// into a file when --sudo-script was given, onto stdout otherwise. A dry
// run never writes the file. A script whose commands were all skipped is
// still emitted; its commented-out commands document what was considered.
func (s *session) emitSudoScript(path string) error {
	out := s.cmd.OutOrStdout()
	if !s.script.NeedsToRun() {
		fmt.Fprint(out, messages.SudoScriptNone)
		if s.script.Empty() {
			return nil
		}
		if path == "" || s.opts.dryRun {
			return s.script.Write(out)
		}
		return s.writeScriptFile(path)
	}
	if path == "" || s.opts.dryRun {
		fmt.Fprint(out, messages.SudoScriptStdoutHint)
		return s.script.Write(out)
	}
	if err := s.writeScriptFile(path); err != nil {
		return err
	}
	fmt.Fprintf(out, messages.SudoScriptFileHintFmt, sudoscript.Quote(path))
	return nil
}

func (s *session) writeScriptFile(path string) error {
	var buf bytes.Buffer
	if err := s.script.Write(&buf); err != nil {
		return fmt.Errorf(messages.SudoScriptWriteErrFmt, path, err)
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o755); err != nil {
		return fmt.Errorf(messages.SudoScriptWriteErrFmt, path, err)
	}
	return nil
}

// sessionBusAvailable reports whether a session bus address is known to
// the process. Without one the liveness probe is pointless.
func sessionBusAvailable() bool {
	return os.Getenv("DBUS_SESSION_BUS_ADDRESS") != ""
}
