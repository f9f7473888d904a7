// Package render substitutes the closed placeholder set of templated
// artifacts. This is deliberately not a templating language: the
// placeholder names are fixed, unknown names and missing values are hard
// errors, and identical input always yields byte-identical output.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/socratools/socranop/internal/layout"
	"github.com/socratools/socranop/internal/messages"
)

// ErrTemplate is wrapped by every rendering failure.
var ErrTemplate = errors.New("template error")

// Context holds the values for every placeholder a templated artifact may
// reference.
type Context struct {
	Prefix        string
	BinDir        string
	DataDir       string
	PackageName   string
	Version       string
	ApplicationID string
	BusName       string
}

// NewContext builds the render context for a resolved layout and package
// metadata. Paths are the layout's logical paths: a staged build renders
// target paths, never staging paths.
func NewContext(l layout.Layout, packageName, version, applicationID, busName string) Context {
	return Context{
		Prefix:        l.Prefix,
		BinDir:        l.BinDir,
		DataDir:       l.DataDir,
		PackageName:   packageName,
		Version:       version,
		ApplicationID: applicationID,
		BusName:       busName,
	}
}

func (c Context) lookup(name string) (string, bool) {
	switch name {
	case "prefix":
		return c.Prefix, true
	case "bindir":
		return c.BinDir, true
	case "datadir":
		return c.DataDir, true
	case "packageName":
		return c.PackageName, true
	case "version":
		return c.Version, true
	case "applicationId":
		return c.ApplicationID, true
	case "busName":
		return c.BusName, true
	default:
		return "", false
	}
}

// Render substitutes ${name} and $name placeholders in src against ctx.
// $$ yields a literal $. name identifies the template in error messages.
func Render(name string, src []byte, ctx Context) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(src))

	for i := 0; i < len(src); i++ {
		b := src[i]
		if b != '$' {
			out.WriteByte(b)
			continue
		}
		if i+1 < len(src) && src[i+1] == '$' {
			out.WriteByte('$')
			i++
			continue
		}
		placeholder, next, err := scanPlaceholder(name, src, i+1)
		if err != nil {
			return nil, err
		}
		if placeholder == "" {
			// Lone dollar with no identifier following.
			out.WriteByte('$')
			continue
		}
		value, ok := ctx.lookup(placeholder)
		if !ok {
			return nil, fmt.Errorf(messages.RenderUnknownPlaceholderFmt+": %w", name, placeholder, ErrTemplate)
		}
		if value == "" {
			return nil, fmt.Errorf(messages.RenderMissingValueFmt+": %w", name, placeholder, ErrTemplate)
		}
		out.WriteString(value)
		i = next - 1
	}
	return out.Bytes(), nil
}

// scanPlaceholder reads the placeholder name starting at src[pos] and
// returns it with the index of the first byte after it. An empty name
// with nil error means src[pos] does not start a placeholder.
func scanPlaceholder(name string, src []byte, pos int) (string, int, error) {
	if pos >= len(src) {
		return "", pos, nil
	}
	if src[pos] == '{' {
		end := bytes.IndexByte(src[pos:], '}')
		if end < 0 {
			return "", 0, fmt.Errorf(messages.RenderUnterminatedFmt+": %w", name, ErrTemplate)
		}
		return string(src[pos+1 : pos+end]), pos + end + 1, nil
	}
	end := pos
	for end < len(src) && isIdent(src[end]) {
		end++
	}
	return string(src[pos:end]), end, nil
}

func isIdent(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
