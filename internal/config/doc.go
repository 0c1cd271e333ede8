// Package config loads and validates the kestrel configuration file.
//
// # Overview
//
// Kestrel reads one TOML file describing the catalog sources it can browse
// and the timing of the restore sequence. The file is optional; a missing
// file yields a fully usable default configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kestrel/config.toml
//  3. If the file does not exist, fall back to built-in defaults
//  4. If the file exists but fields are missing or empty, merge defaults
//     field by field
//
// A file that exists but cannot be opened or parsed is an error, not a
// fallback. Declared sources replace the built-in list wholesale; partial
// source lists are taken as intentional.
//
// # Default Values
//
//   - Default source: earth-search
//   - Link file: ~/.local/state/kestrel/link
//   - Sources: Earth Search (Element 84) and the Microsoft Planetary
//     Computer STAC endpoints
//   - Restore timing: 100ms poll, 10s viewport and catalog deadlines,
//     15s results deadline, 3 switch retries at 2s apart, 15s search
//     timeout
//
// # Restore Timing
//
// The [restore] table holds integer knobs in file-friendly units
// (milliseconds and seconds). The accessor methods on Restore convert them
// to time.Duration so the rest of the code never repeats the unit
// conversion.
//
// # Path Expansion
//
// The config path and the link file path are expanded against the user's
// home directory when they begin with "~". The log file path is passed
// through as written; the logging package does its own expansion.
//
// # Validation
//
// Load rejects configurations that would fail confusingly later: a default
// source that no declared source provides, sources without an id or
// endpoint, and duplicate source ids.
package config
