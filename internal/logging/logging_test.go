package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	logger, closer := New(path, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("exam submitted", "score", 33)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "exam submitted" || rec["score"] != float64(33) {
		t.Errorf("record = %v", rec)
	}
}

func TestDefaultPath_UsesXDGState(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/var/state", "examencivique", "examencivique.log"); p != want {
		t.Errorf("DefaultPath = %q, want %q", p, want)
	}
}
