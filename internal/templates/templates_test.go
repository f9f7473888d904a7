package templates_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/pkginfo"
	"github.com/socratools/socranop/internal/render"
	"github.com/socratools/socranop/internal/templates"
)

func TestReadBundledFile(t *testing.T) {
	data, err := templates.Read("dbus-1/session.service.in")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Name=${busName}") {
		t.Fatalf("service template missing bus name placeholder:\n%s", data)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := templates.Read("no/such/file"); err == nil {
		t.Fatal("expected an error for a missing bundle entry")
	}
}

func TestWalkManPages(t *testing.T) {
	var found []string
	err := templates.Walk("man", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{}
	for _, name := range []string{
		pkginfo.ExeCLI, pkginfo.ExeGUI, pkginfo.ExeService, pkginfo.ExeInstallTool,
	} {
		want["man/"+name+".1.in"] = false
	}
	want["man/socranop-permissions.7.in"] = false
	for _, p := range found {
		if _, ok := want[p]; !ok {
			t.Errorf("unexpected bundled man source %q", p)
			continue
		}
		want[p] = true
	}
	for p, seen := range want {
		if !seen {
			t.Errorf("missing bundled man source %q", p)
		}
	}
}

// Every bundled template must render cleanly against a complete context;
// a stray or misspelled placeholder in a data file should fail here, not
// during an install.
func TestEveryBundledTemplateRenders(t *testing.T) {
	l := layout.Layout{
		Prefix:  "/usr",
		BinDir:  "/usr/bin",
		DataDir: "/usr/share",
	}
	ctx := render.NewContext(l, pkginfo.Package, pkginfo.Version, pkginfo.ApplicationID, pkginfo.BusName)

	var rendered int
	err := templates.Walk(".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".in") {
			return nil
		}
		src, err := templates.Read(p)
		if err != nil {
			return err
		}
		out, err := render.Render(p, src, ctx)
		if err != nil {
			return err
		}
		if strings.Contains(string(out), "${") {
			t.Errorf("%s: unrendered placeholder remains:\n%s", p, out)
		}
		rendered++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if rendered < 7 {
		t.Fatalf("only %d templates rendered; the bundle looks incomplete", rendered)
	}
}
