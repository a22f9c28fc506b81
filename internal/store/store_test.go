package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by the file-based test below.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "examencivique.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	if err := s.Set(ctx, "progress.data", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "progress.data")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("value = %q, want %q", got, `{"a":1}`)
	}
}

// kvContract runs the KV behaviour every implementation must share.
func kvContract(t *testing.T, kv interface {
	KV
	Keys(ctx context.Context, prefix string) ([]string, error)
}) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "progress.data", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "progress.data", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "progress.data")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("value = %q, want v2 (last write wins)", got)
	}

	for _, k := range []string{"auth.user.a@b.fr", "auth.session", "settings.language", "progress_x"} {
		if err := kv.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	keys, err := kv.Keys(ctx, "auth.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if want := []string{"auth.session", "auth.user.a@b.fr"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys(auth.) = %v, want %v", keys, want)
	}

	// '_' must not act as a wildcard.
	if err := kv.Clear(ctx, "progress."); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := kv.Get(ctx, "progress.data"); !errors.Is(err, ErrNotFound) {
		t.Errorf("progress.data still present after Clear(progress.)")
	}
	if _, err := kv.Get(ctx, "progress_x"); err != nil {
		t.Errorf("progress_x removed by Clear(progress.): %v", err)
	}

	if err := kv.Delete(ctx, "settings.language"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "settings.language"); !errors.Is(err, ErrNotFound) {
		t.Errorf("settings.language still present after Delete")
	}
	// Deleting a missing key is not an error.
	if err := kv.Delete(ctx, "settings.language"); err != nil {
		t.Errorf("delete missing: %v", err)
	}

	if err := kv.Clear(ctx, ""); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	keys, _ = kv.Keys(ctx, "")
	if len(keys) != 0 {
		t.Errorf("keys after Clear(\"\") = %v, want none", keys)
	}
}

func TestSQLiteKV_Contract(t *testing.T) {
	kvContract(t, openTestStore(t))
}

func TestMemoryKV_Contract(t *testing.T) {
	kvContract(t, NewMemory())
}

func TestMemoryKV_GetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.Set(ctx, "k", []byte("abc"))

	v, _ := m.Get(ctx, "k")
	v[0] = 'z'

	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get result: %q", again)
	}
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "sub", "custom.db")
	t.Setenv("EXAMCIVIQUE_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("EXAMCIVIQUE_DB", "")
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	want := filepath.Join(dataHome, "examencivique", "examencivique.db")
	if got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}
}
