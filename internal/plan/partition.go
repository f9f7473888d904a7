package plan

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/socratools/socranop/internal/catalog"
	"github.com/socratools/socranop/internal/layout"
)

// Partitioner decides whether a planned file mutation must be deferred to
// the sudo script. AlwaysPrivileged artifacts are deferred on live
// systems regardless of writability, even when the tool itself runs as
// root; for staged builds the write lands inside the package tree and
// writability decides. Everything else is decided by whether the invoking
// identity can write the destination's nearest existing ancestor.
type Partitioner struct {
	Layout layout.Layout
	// Writable reports whether dir is writable by the invoking identity.
	// Overridable in tests.
	Writable func(dir string) bool
}

// NewPartitioner builds a partitioner with the real access check.
func NewPartitioner(l layout.Layout) Partitioner {
	return Partitioner{Layout: l, Writable: dirWritable}
}

// Privileged classifies one destination under the given policy.
func (p Partitioner) Privileged(policy catalog.PrivilegePolicy, dest string) bool {
	if policy == catalog.AlwaysPrivileged && p.Layout.Kind != layout.StagedInstall {
		return true
	}
	staged := p.Layout.StagedPath(dest)
	return !p.Writable(nearestExistingDir(filepath.Dir(staged)))
}

// nearestExistingDir walks up from dir to the closest ancestor that
// exists. Writability of that ancestor governs whether the missing chain
// below it can be created.
func nearestExistingDir(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

func dirWritable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
