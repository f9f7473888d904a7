// Package catalog is the static registry of every installable artifact:
// where its source lives, whether it is copied verbatim or rendered, where
// it goes relative to the resolved layout, and whether writing it is
// expected to need elevated privilege.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/socratools/socranop/internal/devices"
	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/pkginfo"
	"github.com/socratools/socranop/internal/render"
	"github.com/socratools/socranop/internal/templates"
)

// ErrMissingSource is wrapped when a catalog entry's source cannot be read.
var ErrMissingSource = errors.New("artifact source missing")

// Kind says how an artifact's content is produced.
type Kind int

const (
	// Verbatim artifacts are copied byte-for-byte.
	Verbatim Kind = iota
	// Templated artifacts are rendered against the placeholder context.
	Templated
)

// PrivilegePolicy steers the privilege partitioner.
type PrivilegePolicy int

const (
	// Auto defers to destination writability.
	Auto PrivilegePolicy = iota
	// AlwaysPrivileged operations are deferred to the sudo script on a
	// live system regardless of writability.
	AlwaysPrivileged
)

// Dir names one of the layout's declared directories.
type Dir int

const (
	DirData Dir = iota
	DirMan
	DirCompletion
	DirUdevRules
)

// ArtifactSpec describes one installable item.
type ArtifactSpec struct {
	ID      string
	Kind    Kind
	Source  string // path under the bundled data root; empty when Content is set
	Content []byte // pre-generated content (udev rules)
	Dir     Dir
	DestRel string // destination relative to Dir
	Mode    fs.FileMode
	Policy  PrivilegePolicy
	Comment string // one-line description, used in the sudo script
	// SelfOwned marks artifacts belonging to the installtool itself,
	// which package-build-install removes from the staging tree again.
	SelfOwned bool
}

// Instance is an artifact bound to a layout: resolved destination and
// final content.
type Instance struct {
	Spec    ArtifactSpec
	Dest    string // logical absolute destination
	Content []byte
}

// Specs returns the artifact list for the given device table. Completion
// and man entries are discovered by walking the bundled data tree, so a
// data file added to the bundle is installed without a code change.
func Specs(table devices.Table) ([]ArtifactSpec, error) {
	appID := pkginfo.ApplicationID
	specs, err := completionSpecs()
	if err != nil {
		return nil, err
	}
	manPages, err := manSpecs()
	if err != nil {
		return nil, err
	}
	specs = append(specs, manPages...)
	specs = append(specs, []ArtifactSpec{
		{
			ID:      "dbus-service",
			Kind:    Templated,
			Source:  "dbus-1/session.service.in",
			Dir:     DirData,
			DestRel: "dbus-1/services/" + pkginfo.BusName + ".service",
			Mode:    0o644,
			Comment: "D-Bus session activation file for the mirror service",
		},
		{
			ID:      "desktop-entry",
			Kind:    Templated,
			Source:  "xdg/" + pkginfo.ExeGUI + ".desktop.in",
			Dir:     DirData,
			DestRel: "applications/" + appID + ".desktop",
			Mode:    0o644,
			Comment: "desktop menu entry for " + pkginfo.ExeGUI,
		},
		{
			ID:      "icon/scalable",
			Kind:    Verbatim,
			Source:  "xdg/socranop.svg",
			Dir:     DirData,
			DestRel: "icons/hicolor/scalable/apps/" + appID + ".svg",
			Mode:    0o644,
			Comment: "scalable application icon",
		},
	}...)
	for _, size := range []int{48, 256} {
		specs = append(specs, ArtifactSpec{
			ID:      fmt.Sprintf("icon/%dx%d", size, size),
			Kind:    Verbatim,
			Source:  fmt.Sprintf("xdg/socranop.%d.png", size),
			Dir:     DirData,
			DestRel: fmt.Sprintf("icons/hicolor/%dx%d/apps/%s.png", size, size, appID),
			Mode:    0o644,
			Comment: fmt.Sprintf("%dx%d application icon", size, size),
		})
	}
	specs = append(specs, ArtifactSpec{
		ID:      "udev-rules",
		Content: []byte(table.UdevRules()),
		Dir:     DirUdevRules,
		DestRel: "70-" + pkginfo.Package + ".rules",
		Mode:    0o644,
		Policy:  AlwaysPrivileged,
		Comment: "udev rules allowing non-root access to the USB device",
	})
	return specs, nil
}

// completionSpecs lists one verbatim artifact per bundled bash completion.
// The installtool's own completion is marked self-owned so package builds
// strip it again.
func completionSpecs() ([]ArtifactSpec, error) {
	var specs []ArtifactSpec
	err := templates.Walk("bash-completion", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := path.Base(p)
		specs = append(specs, ArtifactSpec{
			ID:        "completion/" + name,
			Kind:      Verbatim,
			Source:    p,
			Dir:       DirCompletion,
			DestRel:   name,
			Mode:      0o644,
			Comment:   "bash completion for " + name,
			SelfOwned: name == pkginfo.ExeInstallTool,
		})
		return nil
	})
	return specs, err
}

// manSpecs lists one templated artifact per bundled man page source. The
// section directory (man1, man7) derives from the source file name
// "<name>.<section>.in".
func manSpecs() ([]ArtifactSpec, error) {
	var specs []ArtifactSpec
	err := templates.Walk("man", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		page := strings.TrimSuffix(path.Base(p), ".in")
		dot := strings.LastIndexByte(page, '.')
		if dot < 0 {
			return fmt.Errorf(messages.CatalogManSourceFmt, p)
		}
		name, section := page[:dot], page[dot+1:]
		specs = append(specs, ArtifactSpec{
			ID:        "man/" + name,
			Kind:      Templated,
			Source:    p,
			Dir:       DirMan,
			DestRel:   "man" + section + "/" + page,
			Mode:      0o644,
			Comment:   "man page for " + name,
			SelfOwned: name == pkginfo.ExeInstallTool,
		})
		return nil
	})
	return specs, err
}

// Expand binds every spec to the layout, reading verbatim sources and
// rendering templated ones. A source that cannot be read aborts the whole
// expansion; a template error aborts before any write can happen.
func Expand(specs []ArtifactSpec, l layout.Layout, ctx render.Context) ([]Instance, error) {
	instances := make([]Instance, 0, len(specs))
	for _, spec := range specs {
		dest, err := spec.destination(l)
		if err != nil {
			return nil, err
		}
		content := spec.Content
		if spec.Source != "" {
			src, err := templates.Read(spec.Source)
			if err != nil {
				return nil, fmt.Errorf(messages.CatalogMissingSourceFmt, spec.ID, spec.Source, ErrMissingSource)
			}
			content = src
		}
		if spec.Kind == Templated {
			rendered, err := render.Render(spec.Source, content, ctx)
			if err != nil {
				return nil, err
			}
			content = rendered
		}
		instances = append(instances, Instance{Spec: spec, Dest: dest, Content: content})
	}
	return instances, nil
}

func (s ArtifactSpec) destination(l layout.Layout) (string, error) {
	rel := path.Clean(s.DestRel)
	if path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf(messages.CatalogDestEscapesFmt, s.ID, s.DestRel)
	}
	var base string
	switch s.Dir {
	case DirData:
		base = l.DataDir
	case DirMan:
		base = l.ManDir
	case DirCompletion:
		base = l.CompletionDir
	case DirUdevRules:
		base = l.UdevRulesDir
	default:
		return "", fmt.Errorf(messages.CatalogDestEscapesFmt, s.ID, s.DestRel)
	}
	return path.Join(base, rel), nil
}
