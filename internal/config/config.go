package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Source describes one remote catalog endpoint.
type Source struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Endpoint string `toml:"endpoint"`
}

// Restore holds the timing knobs of the restore sequence. Values are kept in
// file-friendly units and converted through the accessor methods.
type Restore struct {
	PollIntervalMS    int `toml:"poll_interval_ms"`
	ViewportDeadlineS int `toml:"viewport_deadline_s"`
	CatalogDeadlineS  int `toml:"catalog_deadline_s"`
	ResultsDeadlineS  int `toml:"results_deadline_s"`
	SwitchRetries     int `toml:"switch_retries"`
	SwitchRetryDelayS int `toml:"switch_retry_delay_s"`
	SearchTimeoutS    int `toml:"search_timeout_s"`
}

// Config captures everything kestrel reads from its config file.
type Config struct {
	DefaultSource string   `toml:"default_source"`
	LogFile       string   `toml:"log_file"`
	LinkFile      string   `toml:"link_file"`
	Sources       []Source `toml:"sources"`
	Restore       Restore  `toml:"restore"`
}

const (
	defaultConfigPath = "~/.config/kestrel/config.toml"
	defaultLinkPath   = "~/.local/state/kestrel/link"
)

func defaultSources() []Source {
	return []Source{
		{
			ID:       "earth-search",
			Name:     "Earth Search (Element 84)",
			Endpoint: "https://earth-search.aws.element84.com/v1",
		},
		{
			ID:       "planetary",
			Name:     "Microsoft Planetary Computer",
			Endpoint: "https://planetarycomputer.microsoft.com/api/stac/v1",
		},
	}
}

func defaults() Config {
	return Config{
		DefaultSource: "earth-search",
		LinkFile:      defaultLinkPath,
		Sources:       defaultSources(),
		Restore: Restore{
			PollIntervalMS:    100,
			ViewportDeadlineS: 10,
			CatalogDeadlineS:  10,
			ResultsDeadlineS:  15,
			SwitchRetries:     3,
			SwitchRetryDelayS: 2,
			SearchTimeoutS:    15,
		},
	}
}

// Load locates and parses the kestrel config, falling back to defaults when
// the file is missing. File values override defaults field by field; sources
// replace the built-in list wholesale when any are declared.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.LinkFile = mustExpand(cfg.LinkFile)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw Config
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DefaultSource); v != "" {
		cfg.DefaultSource = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(raw.LinkFile); v != "" {
		cfg.LinkFile = v
	}
	if len(raw.Sources) > 0 {
		cfg.Sources = raw.Sources
	}
	mergeRestore(&cfg.Restore, raw.Restore)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.LinkFile = mustExpand(cfg.LinkFile)
	return cfg, nil
}

// SourceByID looks a source up by id.
func (c Config) SourceByID(id string) (Source, bool) {
	for _, src := range c.Sources {
		if src.ID == id {
			return src, true
		}
	}
	return Source{}, false
}

// PollInterval returns the restore poll cadence.
func (r Restore) PollInterval() time.Duration {
	return time.Duration(r.PollIntervalMS) * time.Millisecond
}

// ViewportDeadline bounds the wait for the map pane to become ready.
func (r Restore) ViewportDeadline() time.Duration {
	return time.Duration(r.ViewportDeadlineS) * time.Second
}

// CatalogDeadline bounds the wait for the collection list.
func (r Restore) CatalogDeadline() time.Duration {
	return time.Duration(r.CatalogDeadlineS) * time.Second
}

// ResultsDeadline bounds the wait for search results. It is the longest gate
// because it covers a network round trip.
func (r Restore) ResultsDeadline() time.Duration {
	return time.Duration(r.ResultsDeadlineS) * time.Second
}

// SwitchRetryDelay is the fixed delay between source-switch attempts.
func (r Restore) SwitchRetryDelay() time.Duration {
	return time.Duration(r.SwitchRetryDelayS) * time.Second
}

// SearchTimeout bounds a single catalog search request.
func (r Restore) SearchTimeout() time.Duration {
	return time.Duration(r.SearchTimeoutS) * time.Second
}

func mergeRestore(dst *Restore, src Restore) {
	if src.PollIntervalMS > 0 {
		dst.PollIntervalMS = src.PollIntervalMS
	}
	if src.ViewportDeadlineS > 0 {
		dst.ViewportDeadlineS = src.ViewportDeadlineS
	}
	if src.CatalogDeadlineS > 0 {
		dst.CatalogDeadlineS = src.CatalogDeadlineS
	}
	if src.ResultsDeadlineS > 0 {
		dst.ResultsDeadlineS = src.ResultsDeadlineS
	}
	if src.SwitchRetries > 0 {
		dst.SwitchRetries = src.SwitchRetries
	}
	if src.SwitchRetryDelayS > 0 {
		dst.SwitchRetryDelayS = src.SwitchRetryDelayS
	}
	if src.SearchTimeoutS > 0 {
		dst.SearchTimeoutS = src.SearchTimeoutS
	}
}

func validate(cfg Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("config declares no sources")
	}
	seen := make(map[string]bool, len(cfg.Sources))
	for _, src := range cfg.Sources {
		if strings.TrimSpace(src.ID) == "" {
			return fmt.Errorf("source with empty id")
		}
		if seen[src.ID] {
			return fmt.Errorf("duplicate source id %q", src.ID)
		}
		seen[src.ID] = true
		if strings.TrimSpace(src.Endpoint) == "" {
			return fmt.Errorf("source %q has no endpoint", src.ID)
		}
	}
	if _, ok := cfg.SourceByID(cfg.DefaultSource); !ok {
		return fmt.Errorf("default source %q is not declared", cfg.DefaultSource)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
