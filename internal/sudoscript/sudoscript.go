// Package sudoscript collects the shell commands that need elevated
// privilege into a script for the user to audit and run. The tool never
// executes these commands itself; that separation is the point.
package sudoscript

import (
	"fmt"
	"io"
	"strings"

	"github.com/socratools/socranop/internal/pkginfo"
)

// Command is a single shell command destined for the sudo script. A
// skipped command is emitted commented-out so the script still documents
// what was considered and why nothing needs to happen.
type Command struct {
	Cmd     string
	SkipIf  bool
	Comment string
}

// Script is the ordered collection of privileged commands of one run.
type Script struct {
	commands []Command
}

// Add appends a command. skipIf marks it as not currently required.
func (s *Script) Add(cmd string, skipIf bool, comment string) {
	s.commands = append(s.commands, Command{Cmd: cmd, SkipIf: skipIf, Comment: comment})
}

// Empty reports whether no commands were collected at all.
func (s *Script) Empty() bool {
	return len(s.commands) == 0
}

// NeedsToRun reports whether at least one non-skipped command exists.
func (s *Script) NeedsToRun() bool {
	for _, c := range s.commands {
		if !c.SkipIf {
			return true
		}
	}
	return false
}

// Write serializes the script as POSIX shell text.
func (s *Script) Write(w io.Writer) error {
	header := fmt.Sprintf("#!/bin/sh\n"+
		"# This script contains commands which %s could not run.\n"+
		"# Review it, then run it manually, probably via sudo.\n",
		pkginfo.ExeInstallTool)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if len(s.commands) == 0 {
		_, err := io.WriteString(w, "\n# No commands to run.\n")
		return err
	}
	for _, c := range s.commands {
		if err := c.write(w); err != nil {
			return err
		}
	}
	return nil
}

func (c Command) write(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n")
	if c.Comment != "" {
		fmt.Fprintf(&b, "# %s\n", c.Comment)
	}
	if c.SkipIf {
		b.WriteString("# [command skipped (not required)]\n")
		for _, line := range strings.Split(c.Cmd, "\n") {
			fmt.Fprintf(&b, "# %s\n", line)
		}
	} else {
		b.WriteString(c.Cmd)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Quote shell-quotes a single word.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$&|;<>()*?[]#~`{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
