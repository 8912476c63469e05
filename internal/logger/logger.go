// Package logger holds the process-wide slog logger and its daily log files.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the process-wide logger. It discards everything until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	filePrefix    = "powerplan-"
	fileSuffix    = ".log"
	retentionDays = 30
)

// Options controls where log records go.
type Options struct {
	Enabled bool       // write JSON records to a daily file under Dir
	Dir     string     // defaults to ~/.powerplan/logs
	Level   slog.Level // minimum level for the file handler
	Verbose bool       // also mirror debug-level text records to stderr
}

// Init replaces L according to opts. The returned closer releases the log
// file and is never nil.
func Init(opts Options) (io.Closer, error) {
	switch {
	case opts.Verbose && !opts.Enabled:
		L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return nopCloser{}, nil
	case !opts.Enabled:
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nopCloser{}, nil
	}

	dir := opts.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nopCloser{}, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".powerplan", "logs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	pruneOldLogs(dir, time.Now())

	name := filepath.Join(dir, filePrefix+time.Now().Format("2006-01-02")+fileSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = f
	level := opts.Level
	if opts.Verbose {
		w = io.MultiWriter(f, os.Stderr)
		level = slog.LevelDebug
	}
	L = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return f, nil
}

// ParseLevel maps a config string onto a slog level; unknown strings mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// pruneOldLogs removes powerplan-YYYY-MM-DD.log files older than the retention window.
func pruneOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		day, err := time.Parse("2006-01-02", strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
