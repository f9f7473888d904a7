// Package plan turns the artifact catalog into an ordered execution plan,
// splits it into user-executable and privilege-deferred operations, and
// executes the unprivileged subset.
package plan

import (
	"io/fs"

	"github.com/socratools/socranop/internal/layout"
)

// Action is the kind of a planned operation.
type Action int

const (
	// ActionWrite writes content to a destination file.
	ActionWrite Action = iota
	// ActionRemove removes a destination file.
	ActionRemove
	// ActionSymlink points Path at Target.
	ActionSymlink
	// ActionShell is a shell command; never executed directly, only
	// emitted into the sudo script.
	ActionShell
)

// String returns the short action label used in reports.
func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "write"
	case ActionRemove:
		return "remove"
	case ActionSymlink:
		return "symlink"
	case ActionShell:
		return "shell"
	default:
		return "unknown"
	}
}

// Operation is one planned file mutation or shell command. Operations are
// immutable once built; execution results are reported separately.
type Operation struct {
	Description string
	Action      Action
	Path        string // logical destination (unstaged)
	Content     []byte // ActionWrite
	Mode        fs.FileMode
	Target      string // ActionSymlink
	Command     string // ActionShell
	SkipIf      bool   // ActionShell: command not currently required
	Privileged  bool
}

// Plan is the complete, ordered operation list of one invocation.
type Plan struct {
	Command    string
	Layout     layout.Layout
	Operations []Operation
}

// Status classifies what happened (or would happen) to one operation.
type Status int

const (
	// StatusDone means the operation was executed.
	StatusDone Status = iota
	// StatusUpToDate means the destination already had the exact content.
	StatusUpToDate
	// StatusSkipped means there was nothing to do (file already absent).
	StatusSkipped
	// StatusDeferred means the operation went into the sudo script.
	StatusDeferred
	// StatusPlanned means a dry run would execute the operation.
	StatusPlanned
	// StatusPending means a fatal error stopped the plan before this
	// operation ran.
	StatusPending
)

// String returns the status label used in reports.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusUpToDate:
		return "up to date"
	case StatusSkipped:
		return "skipped"
	case StatusDeferred:
		return "sudo script"
	case StatusPlanned:
		return "planned"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Result pairs an operation with its outcome.
type Result struct {
	Op     Operation
	Status Status
	Err    error
}
