package plan

import (
	"bytes"
	"path/filepath"

	"github.com/socratools/socranop/internal/catalog"
	"github.com/socratools/socranop/internal/devices"
	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/pkginfo"
)

// Install builds the full install plan: one write per artifact instance in
// numeric-aware destination order, followed by the privileged udev trigger
// commands. command is the invoking command name used in reports. sys is
// only used for read-only probes of already-installed content; building a
// plan never writes anything.
func Install(sys System, command string, l layout.Layout, instances []catalog.Instance, table devices.Table, part Partitioner) Plan {
	ops := make([]Operation, 0, len(instances)+1)
	var rules *catalog.Instance
	for i, inst := range instances {
		if inst.Spec.ID == "udev-rules" {
			rules = &instances[i]
		}
		ops = append(ops, Operation{
			Description: inst.Spec.Comment,
			Action:      ActionWrite,
			Path:        inst.Dest,
			Content:     inst.Content,
			Mode:        inst.Spec.Mode,
			Privileged:  part.Privileged(inst.Spec.Policy, inst.Dest),
		})
	}
	sortOps(ops, false)

	if rules != nil {
		skip := false
		if existing, err := sys.ReadFile(l.StagedPath(rules.Dest)); err == nil {
			skip = bytes.Equal(existing, rules.Content)
		}
		ops = append(ops, triggerOp(table, skip))
	}
	return Plan{Command: command, Layout: l, Operations: ops}
}

// Uninstall builds the exact inverse of the install plan: one remove per
// artifact destination, walked in reverse order. Files already absent are
// skipped during execution, not treated as errors.
func Uninstall(sys System, command string, l layout.Layout, instances []catalog.Instance, table devices.Table, part Partitioner) Plan {
	ops := make([]Operation, 0, len(instances)+1)
	rulesPresent := false
	for _, inst := range instances {
		if inst.Spec.ID == "udev-rules" {
			if _, err := sys.Stat(l.StagedPath(inst.Dest)); err == nil {
				rulesPresent = true
			}
		}
		ops = append(ops, Operation{
			Description: inst.Spec.Comment,
			Action:      ActionRemove,
			Path:        inst.Dest,
			Privileged:  part.Privileged(inst.Spec.Policy, inst.Dest),
		})
	}
	sortOps(ops, true)

	// Removing the rules file changes device permissions on replug; the
	// trigger applies that to devices plugged in right now.
	ops = append(ops, triggerOp(table, !rulesPresent))
	return Plan{Command: command, Layout: l, Operations: ops}
}

// RemoveSelf builds the cleanup plan of package-build-install: the
// installtool's own binary and artifacts are stripped from the staging
// tree again, strictly after everything else is in place. Distribution
// packages must not ship the installer.
func RemoveSelf(l layout.Layout, instances []catalog.Instance) Plan {
	ops := []Operation{{
		Description: "installtool executable",
		Action:      ActionRemove,
		Path:        filepath.Join(l.BinDir, pkginfo.ExeInstallTool),
	}}
	for _, inst := range instances {
		if !inst.Spec.SelfOwned {
			continue
		}
		ops = append(ops, Operation{
			Description: inst.Spec.Comment,
			Action:      ActionRemove,
			Path:        inst.Dest,
		})
	}
	sortOps(ops, true)
	return Plan{Command: "remove-self", Layout: l, Operations: ops}
}

func triggerOp(table devices.Table, skip bool) Operation {
	return Operation{
		Description: "trigger udev rules for already-connected mixer devices",
		Action:      ActionShell,
		Path:        "", // not a file operation
		Command:     table.TriggerCommands(),
		SkipIf:      skip,
		Privileged:  true,
	}
}
