package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/socratools/socranop/internal/pkginfo"
)

// fakeUserEnv points the layout resolver at a per-user install below a
// temp home and disconnects the probe from any real session bus.
func fakeUserEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	orig := exePathFunc
	exePathFunc = func() (string, error) {
		return filepath.Join(home, ".local/bin", pkginfo.ExeInstallTool), nil
	}
	t.Cleanup(func() { exePathFunc = orig })
	return home
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(append([]string{pkginfo.ExeInstallTool}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestPostInstallUserLayout(t *testing.T) {
	home := fakeUserEnv(t)
	sudoScript := filepath.Join(home, "sudo.sh")

	stdout, _, err := runCLI(t, "post-pip-install", "--sudo-script", sudoScript)
	if err != nil {
		t.Fatal(err)
	}

	desktop := filepath.Join(home, ".local/share/applications", pkginfo.ApplicationID+".desktop")
	content, err := os.ReadFile(desktop)
	if err != nil {
		t.Fatalf("desktop entry not installed: %v", err)
	}
	if !strings.Contains(string(content), "Exec="+filepath.Join(home, ".local/bin", pkginfo.ExeGUI)) {
		t.Errorf("desktop entry Exec not bound to the user prefix:\n%s", content)
	}

	man := filepath.Join(home, ".local/share/man/man1", pkginfo.ExeCLI+".1")
	if _, err := os.Stat(man); err != nil {
		t.Errorf("man page not installed: %v", err)
	}

	// The udev rules cannot be written as a regular user; they must have
	// gone into the sudo script instead.
	script, err := os.ReadFile(sudoScript)
	if err != nil {
		t.Fatalf("sudo script not written: %v", err)
	}
	if !strings.Contains(string(script), "/etc/udev/rules.d/70-"+pkginfo.Package+".rules") {
		t.Errorf("sudo script missing udev rules write:\n%s", script)
	}
	if !strings.Contains(string(script), "udevadm trigger") {
		t.Errorf("sudo script missing device rescan:\n%s", script)
	}
	info, err := os.Stat(sudoScript)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("sudo script mode %o, want 0755", info.Mode().Perm())
	}

	if !strings.Contains(stdout, "Run "+pkginfo.ExeCLI) {
		t.Errorf("missing final hint in output:\n%s", stdout)
	}
}

func TestPostInstallSecondRunIsUpToDate(t *testing.T) {
	fakeUserEnv(t)

	if _, _, err := runCLI(t, "post-pip-install", "--no-launch"); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := runCLI(t, "post-pip-install", "--no-launch")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "already up to date") {
		t.Fatalf("second run should report up-to-date artifacts:\n%s", stdout)
	}
}

func TestPostInstallDryRunWritesNothing(t *testing.T) {
	home := fakeUserEnv(t)

	stdout, _, err := runCLI(t, "--dry-run", "post-pip-install")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Dry run") {
		t.Errorf("missing dry run header:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(home, ".local/share")); !os.IsNotExist(err) {
		t.Errorf("dry run created files under the prefix: %v", err)
	}
}

func TestPostInstallDryRunDoesNotWriteSudoScript(t *testing.T) {
	home := fakeUserEnv(t)
	sudoScript := filepath.Join(home, "sudo.sh")

	stdout, _, err := runCLI(t, "--dry-run", "post-pip-install", "--sudo-script", sudoScript)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(sudoScript); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote the sudo script: %v", err)
	}
	// The deferred commands still show up on stdout for review.
	if !strings.Contains(stdout, "/etc/udev/rules.d/70-"+pkginfo.Package+".rules") {
		t.Errorf("dry run output missing the deferred udev write:\n%s", stdout)
	}
}

func TestPostInstallSudoScriptByteStable(t *testing.T) {
	home := fakeUserEnv(t)
	sudoScript := filepath.Join(home, "sudo.sh")

	if _, _, err := runCLI(t, "post-pip-install", "--no-launch", "--sudo-script", sudoScript); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(sudoScript)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "post-pip-install", "--no-launch", "--sudo-script", sudoScript); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(sudoScript)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("sudo script changed between identical runs:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestPreUninstallRemovesInstalledFiles(t *testing.T) {
	home := fakeUserEnv(t)

	if _, _, err := runCLI(t, "post-pip-install", "--no-launch"); err != nil {
		t.Fatal(err)
	}
	desktop := filepath.Join(home, ".local/share/applications", pkginfo.ApplicationID+".desktop")
	if _, err := os.Stat(desktop); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "pre-pip-uninstall"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(desktop); !os.IsNotExist(err) {
		t.Fatalf("desktop entry still present after uninstall: %v", err)
	}
}

func TestBuildInstallRequiresExactlyOneMode(t *testing.T) {
	fakeUserEnv(t)

	if _, _, err := runCLI(t, "package-build-install"); !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("no flags: got %v", err)
	}
	_, _, err := runCLI(t, "package-build-install", "--chroot", "/tmp/x", "--force-prefix")
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("both flags: got %v", err)
	}
}

func TestBuildInstallDryRunReportsOwnCommand(t *testing.T) {
	fakeUserEnv(t)
	chroot := t.TempDir()

	orig := exePathFunc
	exePathFunc = func() (string, error) {
		return filepath.Join(chroot, "usr/bin", pkginfo.ExeInstallTool), nil
	}
	defer func() { exePathFunc = orig }()

	stdout, _, err := runCLI(t, "--dry-run", "package-build-install", "--chroot", chroot)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Plan for package-build-install") {
		t.Errorf("plan header does not name the invoking command:\n%s", stdout)
	}
	if strings.Contains(stdout, "Plan for post-pip-install") {
		t.Errorf("plan header names the wrong command:\n%s", stdout)
	}
}

func TestBuildInstallChroot(t *testing.T) {
	fakeUserEnv(t)
	chroot := t.TempDir()

	orig := exePathFunc
	exePathFunc = func() (string, error) {
		return filepath.Join(chroot, "usr/bin", pkginfo.ExeInstallTool), nil
	}
	defer func() { exePathFunc = orig }()

	if _, _, err := runCLI(t, "package-build-install", "--chroot", chroot); err != nil {
		t.Fatal(err)
	}

	desktop := filepath.Join(chroot, "usr/share/applications", pkginfo.ApplicationID+".desktop")
	content, err := os.ReadFile(desktop)
	if err != nil {
		t.Fatalf("desktop entry not staged: %v", err)
	}
	if strings.Contains(string(content), chroot) {
		t.Errorf("staging root leaked into rendered content:\n%s", content)
	}

	rules := filepath.Join(chroot, "usr/lib/udev/rules.d/70-"+pkginfo.Package+".rules")
	if _, err := os.Stat(rules); err != nil {
		t.Errorf("udev rules not staged: %v", err)
	}

	// Package builds must not ship the installtool's own files.
	for _, stripped := range []string{
		"usr/share/bash-completion/completions/" + pkginfo.ExeInstallTool,
		"usr/share/man/man1/" + pkginfo.ExeInstallTool + ".1",
	} {
		if _, err := os.Stat(filepath.Join(chroot, stripped)); !os.IsNotExist(err) {
			t.Errorf("%s still present in the staging tree: %v", stripped, err)
		}
	}
	ctlMan := filepath.Join(chroot, "usr/share/man/man1", pkginfo.ExeCLI+".1")
	if _, err := os.Stat(ctlMan); err != nil {
		t.Errorf("regular man page missing from staging tree: %v", err)
	}
}
