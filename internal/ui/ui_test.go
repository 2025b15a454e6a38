package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	out := Table(
		[]string{"UUID", "TITLE"},
		[][]string{
			{"abc", "Buy milk"},
			{"def", "Write copy"},
		},
	)
	for _, want := range []string{"UUID", "TITLE", "Buy milk", "Write copy"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output lacks %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) < 4 {
		t.Errorf("table output too short:\n%s", out)
	}
}

func TestInteractive(t *testing.T) {
	// Test binaries run with stdout on a pipe, never a terminal.
	if Interactive() {
		t.Error("Interactive() = true with piped stdout")
	}
}
