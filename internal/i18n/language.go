// Package i18n holds the language preference and the UI string tables.
package i18n

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/examencivique/examencivique/internal/store"
)

// Language is a UI and question-text language.
type Language string

const (
	FR Language = "fr" // primary language of the question bank
	ZH Language = "zh" // translation overlay
)

// KeyLanguage is the KV key holding the saved preference.
const KeyLanguage = "settings.language"

// Parse returns the language for a code, falling back to FR.
func Parse(code string) Language {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "zh", "zh-cn", "zh_cn", "chinese", "中文":
		return ZH
	default:
		return FR
	}
}

// Label is the language's own name.
func (l Language) Label() string {
	if l == ZH {
		return "中文"
	}
	return "Français"
}

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == ZH {
		return FR
	}
	return ZH
}

// Manager persists the language preference.
type Manager struct {
	kv     store.KV
	logger *slog.Logger

	mu   sync.RWMutex
	lang Language
}

// NewManager reads the saved preference. A missing or unreadable value
// leaves the manager on FR.
func NewManager(ctx context.Context, kv store.KV, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{kv: kv, logger: logger, lang: FR}

	raw, err := kv.Get(ctx, KeyLanguage)
	switch {
	case err == nil:
		m.lang = Parse(string(raw))
	case !errors.Is(err, store.ErrNotFound):
		logger.Warn("read language preference", "error", err)
	}
	return m
}

// Language returns the current language.
func (m *Manager) Language() Language {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lang
}

// Strings returns the UI strings for the current language.
func (m *Manager) Strings() *Strings {
	return For(m.Language())
}

// Set changes and persists the language. The in-memory value changes even
// when persisting fails.
func (m *Manager) Set(ctx context.Context, lang Language) error {
	lang = Parse(string(lang))

	m.mu.Lock()
	m.lang = lang
	m.mu.Unlock()

	if err := m.kv.Set(ctx, KeyLanguage, []byte(lang)); err != nil {
		m.logger.Error("persist language preference", "language", lang, "error", err)
		return err
	}
	return nil
}
