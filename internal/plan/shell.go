package plan

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/socratools/socranop/internal/sudoscript"
)

// heredocEnd terminates sudo-script heredocs. Artifact content never
// contains this marker.
const heredocEnd = "SOCRANOP_EOF"

// shellForm renders an operation as idempotent POSIX shell for the sudo
// script: forms that succeed when re-run, never bare cp/ln that fail on
// existing targets.
func shellForm(op Operation) string {
	switch op.Action {
	case ActionWrite:
		return shellWrite(op)
	case ActionRemove:
		return "rm -f " + sudoscript.Quote(op.Path)
	case ActionSymlink:
		return "ln -sf " + sudoscript.Quote(op.Target) + " " + sudoscript.Quote(op.Path)
	case ActionShell:
		return op.Command
	default:
		return ""
	}
}

func shellWrite(op Operation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mkdir -p %s\n", sudoscript.Quote(filepath.Dir(op.Path)))
	if isShellText(op.Content) {
		fmt.Fprintf(&b, "cat > %s <<'%s'\n", sudoscript.Quote(op.Path), heredocEnd)
		b.Write(op.Content)
	} else {
		fmt.Fprintf(&b, "base64 -d > %s <<'%s'\n", sudoscript.Quote(op.Path), heredocEnd)
		b.WriteString(wrapBase64(op.Content))
	}
	b.WriteString(heredocEnd + "\n")
	fmt.Fprintf(&b, "chmod %04o %s", op.Mode.Perm(), sudoscript.Quote(op.Path))
	return b.String()
}

// isShellText reports whether content can go through a plain heredoc:
// valid UTF-8, newline-terminated, and free of NUL bytes and the heredoc
// marker itself. Everything else is shipped base64-encoded.
func isShellText(content []byte) bool {
	if len(content) == 0 || content[len(content)-1] != '\n' {
		return false
	}
	if !utf8.Valid(content) {
		return false
	}
	if strings.Contains(string(content), "\x00") {
		return false
	}
	return !strings.Contains(string(content), heredocEnd)
}

func wrapBase64(content []byte) string {
	enc := base64.StdEncoding.EncodeToString(content)
	var b strings.Builder
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteByte('\n')
		enc = enc[76:]
	}
	b.WriteString(enc)
	b.WriteByte('\n')
	return b.String()
}
