// Package templates exposes the data files bundled into the installtool
// binary: shell completions, man page sources, the D-Bus service and
// desktop entry templates, and the icon set.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed data
var dataFS embed.FS

// Read returns the content of the bundled data file at name, relative to
// the data root (for example "dbus-1/session.service.in").
func Read(name string) ([]byte, error) {
	return dataFS.ReadFile(path.Join("data", name))
}

// Walk visits every bundled file under dir, relative to the data root.
// The callback receives paths relative to the data root.
func Walk(dir string, fn fs.WalkDirFunc) error {
	root := path.Join("data", dir)
	return fs.WalkDir(dataFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := relToData(p)
		if relErr != nil {
			return relErr
		}
		return fn(rel, d, nil)
	})
}

func relToData(p string) (string, error) {
	if p == "data" {
		return ".", nil
	}
	rel := path.Clean(p)
	const prefix = "data/"
	if len(rel) > len(prefix) && rel[:len(prefix)] == prefix {
		return rel[len(prefix):], nil
	}
	return rel, nil
}
