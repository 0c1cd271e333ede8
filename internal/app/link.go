package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LinkFile persists the share link to a single file, the terminal stand-in
// for a browser address bar. Writes go through a temp file and rename so a
// crash mid-write never leaves a torn link behind.
type LinkFile struct {
	path string
}

// NewLinkFile creates a sink writing to path.
func NewLinkFile(path string) *LinkFile {
	return &LinkFile{path: path}
}

// Load returns the persisted link, or "" when none exists yet.
func (f *LinkFile) Load() string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Replace overwrites the persisted link in place.
func (f *LinkFile) Replace(link string) {
	_ = f.write(link)
}

func (f *LinkFile) write(link string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create link dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "link-*")
	if err != nil {
		return fmt.Errorf("create temp link: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(link + "\n"); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write link: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close link: %w", err)
	}
	if err := os.Rename(name, f.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace link: %w", err)
	}
	return nil
}
