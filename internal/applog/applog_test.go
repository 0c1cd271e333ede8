package applog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTailMissingFile(t *testing.T) {
	lines, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Tail() error: %v", err)
	}
	if lines != nil {
		t.Errorf("Tail() = %v, want nil for a missing file", lines)
	}
}

func TestTailReturnsLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	content := strings.Join([]string{"one", "two", "three", "four", "five"}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := Tail(path, 3)
	if err != nil {
		t.Fatalf("Tail() error: %v", err)
	}
	want := []string{"three", "four", "five"}
	if len(lines) != len(want) {
		t.Fatalf("Tail() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTailZeroLines(t *testing.T) {
	lines, err := Tail("whatever", 0)
	if err != nil || lines != nil {
		t.Errorf("Tail(0) = (%v, %v), want (nil, nil)", lines, err)
	}
}

func TestNewDegradesToNop(t *testing.T) {
	// A path whose parent cannot be created must not fail startup.
	logger := New(string([]byte{0}), false)
	if logger == nil {
		t.Fatal("New() = nil, want a usable logger")
	}
	logger.Info("discarded")
}
