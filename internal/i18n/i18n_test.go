package i18n

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/examencivique/examencivique/internal/auth"
	"github.com/examencivique/examencivique/internal/store"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"fr", FR},
		{"zh", ZH},
		{"ZH-CN", ZH},
		{" zh_cn ", ZH},
		{"中文", ZH},
		{"en", FR},
		{"", FR},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestManager_PersistsPreference(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	m := NewManager(ctx, kv, nil)
	if m.Language() != FR {
		t.Fatalf("default language = %q, want fr", m.Language())
	}
	if err := m.Set(ctx, ZH); err != nil {
		t.Fatal(err)
	}
	if m.Strings() != For(ZH) {
		t.Error("Strings did not follow the language change")
	}

	reloaded := NewManager(ctx, kv, nil)
	if reloaded.Language() != ZH {
		t.Errorf("reloaded language = %q, want zh", reloaded.Language())
	}
}

func TestManager_GarbageFallsBackToFrench(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Set(ctx, KeyLanguage, []byte("klingon"))

	if got := NewManager(ctx, kv, nil).Language(); got != FR {
		t.Errorf("language = %q, want fr", got)
	}
}

// Every field of both tables is filled in.
func TestStrings_Complete(t *testing.T) {
	for _, lang := range []Language{FR, ZH} {
		v := reflect.ValueOf(*For(lang))
		for i := range v.NumField() {
			if v.Field(i).String() == "" {
				t.Errorf("%s: %s is empty", lang, v.Type().Field(i).Name)
			}
		}
	}
}

func TestAuthError(t *testing.T) {
	s := For(FR)
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{auth.ErrInvalidEmail, s.ErrInvalidEmail},
		{fmt.Errorf("wrapped: %w", auth.ErrWrongPassword), s.ErrWrongPassword},
		{auth.ErrUserNotFound, s.ErrUserNotFound},
		{auth.ErrEmailInUse, s.ErrEmailInUse},
		{auth.ErrWeakPassword, s.ErrWeakPassword},
		{auth.ErrTooManyAttempts, s.ErrTooMany},
		{errors.New("disk full"), s.ErrUnknown},
	}
	for _, tt := range tests {
		if got := s.AuthError(tt.err); got != tt.want {
			t.Errorf("AuthError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
