package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/socratools/socranop/internal/catalog"
	"github.com/socratools/socranop/internal/layout"
)

func testLayout(kind layout.Kind, chroot string) layout.Layout {
	return layout.Layout{
		Kind:          kind,
		Prefix:        "/usr",
		BinDir:        "/usr/bin",
		DataDir:       "/usr/share",
		ManDir:        "/usr/share/man",
		CompletionDir: "/usr/share/bash-completion/completions",
		UdevRulesDir:  "/usr/lib/udev/rules.d",
		ChrootRoot:    chroot,
	}
}

func TestPartitionerAlwaysPrivilegedOnLiveSystem(t *testing.T) {
	p := Partitioner{
		Layout:   testLayout(layout.SystemInstall, ""),
		Writable: func(string) bool { return true },
	}
	if !p.Privileged(catalog.AlwaysPrivileged, "/usr/lib/udev/rules.d/70-socranop.rules") {
		t.Fatal("AlwaysPrivileged must defer on a live system even when the directory is writable")
	}
}

func TestPartitionerAlwaysPrivilegedInStagingTree(t *testing.T) {
	chroot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(chroot, "usr/lib/udev/rules.d"), 0o755); err != nil {
		t.Fatal(err)
	}
	p := NewPartitioner(testLayout(layout.StagedInstall, chroot))
	if p.Privileged(catalog.AlwaysPrivileged, "/usr/lib/udev/rules.d/70-socranop.rules") {
		t.Fatal("staged writes land in the package tree and must not be deferred")
	}
}

func TestPartitionerAutoFollowsWritability(t *testing.T) {
	var checked string
	p := Partitioner{
		Layout: testLayout(layout.SystemInstall, ""),
		Writable: func(dir string) bool {
			checked = dir
			return false
		},
	}
	if !p.Privileged(catalog.Auto, "/usr/share/applications/app.desktop") {
		t.Fatal("unwritable destination should be privileged")
	}
	if checked == "" {
		t.Fatal("writability check was never consulted")
	}

	p.Writable = func(string) bool { return true }
	if p.Privileged(catalog.Auto, "/usr/share/applications/app.desktop") {
		t.Fatal("writable destination should not be privileged")
	}
}

func TestNearestExistingDirWalksUp(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "a/b/c")
	if got := nearestExistingDir(missing); got != root {
		t.Fatalf("nearestExistingDir(%q) = %q, want %q", missing, got, root)
	}
	if got := nearestExistingDir(root); got != root {
		t.Fatalf("nearestExistingDir(%q) = %q, want itself", root, got)
	}
}
