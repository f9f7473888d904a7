package sudoscript

import (
	"strings"
	"testing"
)

func TestEmptyScript(t *testing.T) {
	var s Script
	if !s.Empty() {
		t.Fatalf("expected empty script")
	}
	if s.NeedsToRun() {
		t.Fatalf("empty script must not need to run")
	}
	var b strings.Builder
	if err := s.Write(&b); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := b.String()
	if !strings.HasPrefix(out, "#!/bin/sh\n") {
		t.Fatalf("missing shebang:\n%s", out)
	}
	if !strings.Contains(out, "# No commands to run.") {
		t.Fatalf("missing no-op marker:\n%s", out)
	}
}

func TestWriteWithCommands(t *testing.T) {
	var s Script
	s.Add("mkdir -p /etc/udev/rules.d", false, "rules directory")
	s.Add("rm -f /etc/udev/rules.d/70-socranop.rules", true, "not currently installed")
	if !s.NeedsToRun() {
		t.Fatalf("script with an active command must need to run")
	}
	var b strings.Builder
	if err := s.Write(&b); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "# rules directory\nmkdir -p /etc/udev/rules.d\n") {
		t.Fatalf("active command missing:\n%s", out)
	}
	if !strings.Contains(out, "# [command skipped (not required)]\n# rm -f /etc/udev/rules.d/70-socranop.rules\n") {
		t.Fatalf("skipped command must be commented out:\n%s", out)
	}
}

func TestNeedsToRunAllSkipped(t *testing.T) {
	var s Script
	s.Add("rm -f /x", true, "")
	if s.NeedsToRun() {
		t.Fatalf("all-skipped script must not need to run")
	}
	if s.Empty() {
		t.Fatalf("script with commands is not empty")
	}
}

func TestWriteDeterministic(t *testing.T) {
	var s Script
	s.Add("install -D -m 0644 a b", false, "c")
	var one, two strings.Builder
	if err := s.Write(&one); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := s.Write(&two); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if one.String() != two.String() {
		t.Fatalf("script output not deterministic")
	}
}

func TestQuote(t *testing.T) {
	if Quote("/usr/bin/x") != "/usr/bin/x" {
		t.Fatalf("plain path must stay unquoted")
	}
	if got := Quote("a b"); got != "'a b'" {
		t.Fatalf("got %q", got)
	}
	if got := Quote("it's"); got != `'it'\''s'` {
		t.Fatalf("got %q", got)
	}
}
