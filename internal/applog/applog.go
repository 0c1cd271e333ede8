// Package applog builds the application logger. Kestrel owns the terminal
// while it runs, so logs go to a rotated JSON file only, never to stdout.
package applog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogPath = "~/.local/state/kestrel/kestrel.log"

// DefaultPath returns the default log file location.
func DefaultPath() string {
	return defaultLogPath
}

// New creates a file-only zap logger with rotation. An empty path uses the
// default location. Logging must never keep the app from starting: if the
// directory cannot be created the logger degrades to a no-op.
func New(path string, debug bool) *zap.Logger {
	resolved := expand(path)
	if resolved == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return zap.NewNop()
	}

	rotator := &lumberjack.Logger{
		Filename:   resolved,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		level,
	)
	return zap.New(core)
}

// Resolve expands a log path the same way New does. An empty path resolves
// to the default location.
func Resolve(path string) string {
	return expand(path)
}

// Tail returns at most maxLines lines from the end of the log file. A
// missing file yields no lines and no error.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	resolved := expand(path)
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > maxLines {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

func expand(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultLogPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return ""
	}
	return abs
}
