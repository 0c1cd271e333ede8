package app

import (
	"path/filepath"
	"testing"
)

func TestLinkFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "link")
	f := NewLinkFile(path)

	if got := f.Load(); got != "" {
		t.Fatalf("Load() on missing file = %q, want empty", got)
	}

	f.Replace("cs=planetary&q=flood")
	if got := f.Load(); got != "cs=planetary&q=flood" {
		t.Errorf("Load() = %q, want the stored link", got)
	}

	f.Replace("q=burn-scar")
	if got := f.Load(); got != "q=burn-scar" {
		t.Errorf("Load() after rewrite = %q, want q=burn-scar", got)
	}
}
