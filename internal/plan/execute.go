package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"

	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/sudoscript"
)

// Executor walks a plan in order. Unprivileged operations run through the
// System; privileged ones are collected into the sudo script. A dry run
// classifies every operation with read-only checks and changes nothing.
type Executor struct {
	Sys     System
	Script  *sudoscript.Script
	DryRun  bool
	Verbose bool
	Out     io.Writer
}

// Run executes (or, for a dry run, classifies) every operation. On a
// fatal error it returns the results so far plus a pending entry per
// remaining operation, so the caller can report the completed/pending
// split; completed operations are left in place.
func (e *Executor) Run(p Plan) ([]Result, error) {
	results := make([]Result, 0, len(p.Operations))
	for i, op := range p.Operations {
		res, err := e.runOne(p, op)
		results = append(results, res)
		if err != nil {
			for _, rest := range p.Operations[i+1:] {
				results = append(results, Result{Op: rest, Status: StatusPending})
			}
			return results, err
		}
	}
	return results, nil
}

func (e *Executor) runOne(p Plan, op Operation) (Result, error) {
	if e.Verbose {
		fmt.Fprintf(e.Out, messages.VerboseOpFmt, op.Action, describeOp(op))
	}
	if op.Privileged {
		e.Script.Add(shellForm(op), op.SkipIf, op.Description)
		return Result{Op: op, Status: StatusDeferred}, nil
	}
	switch op.Action {
	case ActionWrite:
		return e.write(p, op)
	case ActionRemove:
		return e.remove(p, op)
	case ActionSymlink:
		return e.symlink(p, op)
	case ActionShell:
		// Unprivileged shell commands do not exist by construction.
		return Result{Op: op, Status: StatusSkipped}, errors.New(messages.PlanShellCommandDirect)
	default:
		return Result{Op: op, Status: StatusSkipped}, fmt.Errorf("unknown action %d", op.Action)
	}
}

func (e *Executor) write(p Plan, op Operation) (Result, error) {
	staged := p.Layout.StagedPath(op.Path)
	existing, readErr := e.Sys.ReadFile(staged)
	if readErr == nil && bytes.Equal(existing, op.Content) {
		return Result{Op: op, Status: StatusUpToDate}, nil
	}
	if readErr == nil && e.Verbose {
		e.printDiff(op.Path, existing, op.Content)
	}
	if e.DryRun {
		return Result{Op: op, Status: StatusPlanned}, nil
	}
	if err := e.Sys.MkdirAll(filepath.Dir(staged), 0o755); err != nil {
		if os.IsPermission(err) {
			return e.deferToScript(op), nil
		}
		return Result{Op: op, Status: StatusPending, Err: err},
			fmt.Errorf(messages.PlanCreateDirErrFmt, op.Path, err)
	}
	if err := e.Sys.WriteFileAtomic(staged, op.Content, op.Mode); err != nil {
		if os.IsPermission(err) {
			return e.deferToScript(op), nil
		}
		return Result{Op: op, Status: StatusPending, Err: err},
			fmt.Errorf(messages.PlanWriteErrFmt, op.Path, err)
	}
	return Result{Op: op, Status: StatusDone}, nil
}

func (e *Executor) remove(p Plan, op Operation) (Result, error) {
	staged := p.Layout.StagedPath(op.Path)
	if _, err := e.Sys.Stat(staged); err != nil {
		if os.IsNotExist(err) {
			return Result{Op: op, Status: StatusSkipped}, nil
		}
	}
	if e.DryRun {
		return Result{Op: op, Status: StatusPlanned}, nil
	}
	if err := e.Sys.Remove(staged); err != nil {
		if os.IsNotExist(err) {
			return Result{Op: op, Status: StatusSkipped}, nil
		}
		if os.IsPermission(err) {
			return e.deferToScript(op), nil
		}
		return Result{Op: op, Status: StatusPending, Err: err},
			fmt.Errorf(messages.PlanRemoveErrFmt, op.Path, err)
	}
	return Result{Op: op, Status: StatusDone}, nil
}

func (e *Executor) symlink(p Plan, op Operation) (Result, error) {
	staged := p.Layout.StagedPath(op.Path)
	if e.DryRun {
		return Result{Op: op, Status: StatusPlanned}, nil
	}
	if err := e.Sys.MkdirAll(filepath.Dir(staged), 0o755); err != nil {
		if os.IsPermission(err) {
			return e.deferToScript(op), nil
		}
		return Result{Op: op, Status: StatusPending, Err: err},
			fmt.Errorf(messages.PlanCreateDirErrFmt, op.Path, err)
	}
	// ln -sf semantics: replace an existing link or file.
	if err := e.Sys.Remove(staged); err != nil && !os.IsNotExist(err) {
		if os.IsPermission(err) {
			return e.deferToScript(op), nil
		}
		return Result{Op: op, Status: StatusPending, Err: err},
			fmt.Errorf(messages.PlanSymlinkErrFmt, op.Path, op.Target, err)
	}
	if err := e.Sys.Symlink(op.Target, staged); err != nil {
		if os.IsPermission(err) {
			return e.deferToScript(op), nil
		}
		return Result{Op: op, Status: StatusPending, Err: err},
			fmt.Errorf(messages.PlanSymlinkErrFmt, op.Path, op.Target, err)
	}
	return Result{Op: op, Status: StatusDone}, nil
}

// deferToScript hands an operation to the sudo script after the
// partitioner guessed unprivileged but execution still hit a permission
// error.
func (e *Executor) deferToScript(op Operation) Result {
	e.Script.Add(shellForm(op), op.SkipIf, op.Description)
	return Result{Op: op, Status: StatusDeferred}
}

func (e *Executor) printDiff(path string, installed []byte, planned []byte) {
	if !utf8.Valid(installed) || !utf8.Valid(planned) {
		return
	}
	fmt.Fprint(e.Out, udiff.Unified(path+" (installed)", path+" (planned)", string(installed), string(planned)))
}
