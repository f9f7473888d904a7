// Package layout resolves the directory set for one deployment context:
// a per-user install, a system-wide install, or a staged install during a
// distribution package build. Every directory derives from a single
// prefix; a staging root is prepended to paths on disk without changing
// the logical prefix recorded in rendered file content.
package layout

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/socratools/socranop/internal/messages"
)

// ErrPrefixRejected is returned when the running executable lives under a
// prefix the resolver does not recognize and --force-prefix was not given.
var ErrPrefixRejected = errors.New("prefix rejected")

// Kind identifies the deployment context of a resolved layout.
type Kind int

const (
	// UserInstall is a per-user install under $HOME/.local.
	UserInstall Kind = iota
	// SystemInstall is a system-wide install under /usr or /usr/local.
	SystemInstall
	// StagedInstall is a package build targeting a staging root or a
	// forced non-standard prefix.
	StagedInstall
)

// String returns the human-readable context name.
func (k Kind) String() string {
	switch k {
	case UserInstall:
		return "user install"
	case SystemInstall:
		return "system install"
	case StagedInstall:
		return "staged install"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layout is the resolved directory set for one deployment context. All
// directories are logical (unstaged) absolute paths; StagedPath maps them
// onto the staging tree when ChrootRoot is set.
type Layout struct {
	Kind          Kind
	Prefix        string
	BinDir        string
	DataDir       string
	ManDir        string
	CompletionDir string
	UdevRulesDir  string
	StateDir      string
	ChrootRoot    string
}

// StagedPath returns where the logical absolute path p lives on disk,
// prepending the staging root when one is set.
func (l Layout) StagedPath(p string) string {
	if l.ChrootRoot == "" {
		return p
	}
	return filepath.Join(l.ChrootRoot, p)
}

// String describes the layout for status output.
func (l Layout) String() string {
	if l.ChrootRoot != "" {
		return fmt.Sprintf("%s, prefix %s, staging root %s", l.Kind, l.Prefix, l.ChrootRoot)
	}
	return fmt.Sprintf("%s, prefix %s", l.Kind, l.Prefix)
}

// Ambient captures the process state the resolver consults. It is built
// once per invocation and passed down; nothing below reads the
// environment directly.
type Ambient struct {
	// ExePath is the absolute path of the running installtool executable.
	ExePath string
	// ConfigHome is $XDG_CONFIG_HOME, possibly empty.
	ConfigHome string
	// Home is the invoking user's home directory.
	Home string
}

// CurrentAmbient captures the real process state.
func CurrentAmbient(exePath string, configHome string) (Ambient, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Ambient{}, fmt.Errorf(messages.LayoutResolveHomeErrFmt, err)
	}
	return Ambient{ExePath: exePath, ConfigHome: configHome, Home: home}, nil
}

// Detect resolves the layout for post-pip-install and pre-pip-uninstall
// from the executable's own install prefix. /usr and /usr/local yield a
// system install, $HOME/.local (including virtualenvs below it) a user
// install; anything else is rejected.
func Detect(amb Ambient) (Layout, error) {
	prefix, err := prefixFromExe(amb.ExePath)
	if err != nil {
		return Layout{}, err
	}

	switch prefix {
	case "/usr":
		return build(SystemInstall, prefix, "/usr/lib/udev/rules.d", "", amb), nil
	case "/usr/local":
		return build(SystemInstall, prefix, "/usr/local/lib/udev/rules.d", "", amb), nil
	}

	userLocal := filepath.Join(amb.Home, ".local")
	if prefix == userLocal || within(amb.ExePath, userLocal) {
		// Virtualenvs below ~/.local still integrate via ~/.local/share,
		// same as the per-user install proper.
		return build(UserInstall, userLocal, "/etc/udev/rules.d", "", amb), nil
	}

	return Layout{}, fmt.Errorf(messages.LayoutPrefixRejectedFmt+": %w", prefix, ErrPrefixRejected)
}

// Staged resolves the layout for package-build-install --chroot. The
// executable must already be installed inside the staging root under one
// of the standard prefixes; the logical prefix stays unstaged.
func Staged(amb Ambient, chroot string) (Layout, error) {
	if !filepath.IsAbs(chroot) {
		return Layout{}, fmt.Errorf(messages.LayoutChrootRelativeFmt, chroot)
	}
	chroot = filepath.Clean(chroot)
	if !within(amb.ExePath, chroot) {
		return Layout{}, fmt.Errorf(messages.LayoutExeNotInChrootFmt, amb.ExePath, chroot)
	}
	rel, err := filepath.Rel(chroot, amb.ExePath)
	if err != nil {
		return Layout{}, err
	}
	rooted := "/" + filepath.ToSlash(rel)

	prefix, err := prefixFromExe(rooted)
	if err != nil {
		return Layout{}, err
	}
	switch prefix {
	case "/usr":
		return build(StagedInstall, prefix, "/usr/lib/udev/rules.d", chroot, amb), nil
	case "/usr/local":
		return build(StagedInstall, prefix, "/usr/local/lib/udev/rules.d", chroot, amb), nil
	}
	return Layout{}, fmt.Errorf(messages.LayoutPrefixRejectedFmt+": %w", prefix, ErrPrefixRejected)
}

// Forced resolves the layout for package-build-install --force-prefix,
// accepting whatever prefix the executable lives under. Useful for store
// paths on distributions with non-standard filesystem layouts.
func Forced(amb Ambient) (Layout, error) {
	prefix, err := prefixFromExe(amb.ExePath)
	if err != nil {
		return Layout{}, err
	}
	return build(StagedInstall, prefix, filepath.Join(prefix, "lib/udev/rules.d"), "", amb), nil
}

func build(kind Kind, prefix string, udevRulesDir string, chroot string, amb Ambient) Layout {
	configHome := amb.ConfigHome
	if configHome == "" {
		configHome = filepath.Join(amb.Home, ".config")
	}
	return Layout{
		Kind:          kind,
		Prefix:        prefix,
		BinDir:        filepath.Join(prefix, "bin"),
		DataDir:       filepath.Join(prefix, "share"),
		ManDir:        filepath.Join(prefix, "share/man"),
		CompletionDir: filepath.Join(prefix, "share/bash-completion/completions"),
		UdevRulesDir:  udevRulesDir,
		StateDir:      filepath.Join(configHome, "socranop", "state"),
		ChrootRoot:    chroot,
	}
}

// prefixFromExe derives the install prefix from an executable path of the
// form <prefix>/bin/<name>.
func prefixFromExe(exePath string) (string, error) {
	exePath = filepath.Clean(exePath)
	binDir := filepath.Dir(exePath)
	if filepath.Base(binDir) != "bin" {
		return "", fmt.Errorf(messages.LayoutExeOutsideBinFmt+": %w", exePath, ErrPrefixRejected)
	}
	return filepath.Dir(binDir), nil
}

func within(path string, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
