// Package logging builds the application logger. The TUI owns the
// terminal, so records go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultPath returns the log file location:
// $XDG_STATE_HOME/examencivique/examencivique.log, or
// ~/.local/state/examencivique/examencivique.log.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "examencivique", "examencivique.log"), nil
}

// New opens path for appending and returns a JSON logger writing to it,
// with the io.Closer for the file. An empty path means DefaultPath. When
// the file cannot be opened the logger writes to stderr and a warning is
// printed there.
func New(path string, level slog.Level) (*slog.Logger, io.Closer) {
	w, closer, err := open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: logging to stderr:", err)
		w, closer = os.Stderr, nopCloser{}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), closer
}

func open(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
