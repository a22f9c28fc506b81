// Package config reads the application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/examencivique/examencivique/internal/auth"
	"github.com/examencivique/examencivique/internal/exam"
)

// Environment variable names.
const (
	EnvDB             = "EXAMCIVIQUE_DB"
	EnvQuestions      = "EXAMCIVIQUE_QUESTIONS"
	EnvTranslations   = "EXAMCIVIQUE_TRANSLATIONS"
	EnvLog            = "EXAMCIVIQUE_LOG"
	EnvLogLevel       = "EXAMCIVIQUE_LOG_LEVEL"
	EnvAuthRequired   = "EXAMCIVIQUE_AUTH_REQUIRED"
	EnvSessionTTL     = "EXAMCIVIQUE_SESSION_TTL"
	EnvRecordRevisits = "EXAMCIVIQUE_STUDY_RECORD_REVISITS"
	EnvPassRatio      = "EXAMCIVIQUE_PASS_RATIO"
)

// Config holds all application configuration.
type Config struct {
	// DBPath overrides the default database location. Empty means default.
	DBPath string

	// QuestionsPath and TranslationsPath replace the embedded question bank
	// when QuestionsPath is set. TranslationsPath is optional.
	QuestionsPath    string
	TranslationsPath string

	// LogPath is the log file. Empty means the default state directory.
	LogPath  string
	LogLevel slog.Level

	// AuthRequired gates study and exam sessions behind sign-in.
	AuthRequired bool
	SessionTTL   time.Duration

	// StudyRecordRevisits records a new attempt when a study question is
	// answered again after navigating back to it.
	StudyRecordRevisits bool

	// PassRatio is the fraction of correct answers needed to pass an exam.
	PassRatio float64
}

// Default returns a Config with the built-in defaults.
func Default() Config {
	return Config{
		LogLevel:            slog.LevelInfo,
		SessionTTL:          auth.DefaultSessionTTL,
		StudyRecordRevisits: true,
		PassRatio:           exam.DefaultPassRatio,
	}
}

// Load reads an optional .env file and then the environment. Invalid
// values are reported on stderr and replaced by their defaults.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv, os.Stderr)
}

// FromEnv builds a Config from getenv. Warnings about invalid values are
// written to warn.
func FromEnv(getenv func(string) string, warn io.Writer) Config {
	cfg := Default()
	warnf := func(key, val string, err error) {
		fmt.Fprintf(warn, "config: ignoring %s=%q: %v\n", key, val, err)
	}

	cfg.DBPath = strings.TrimSpace(getenv(EnvDB))
	cfg.QuestionsPath = strings.TrimSpace(getenv(EnvQuestions))
	cfg.TranslationsPath = strings.TrimSpace(getenv(EnvTranslations))
	cfg.LogPath = strings.TrimSpace(getenv(EnvLog))

	if v := getenv(EnvLogLevel); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			warnf(EnvLogLevel, v, err)
		} else {
			cfg.LogLevel = lvl
		}
	}

	if v := getenv(EnvAuthRequired); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			warnf(EnvAuthRequired, v, err)
		} else {
			cfg.AuthRequired = b
		}
	}

	if v := getenv(EnvRecordRevisits); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			warnf(EnvRecordRevisits, v, err)
		} else {
			cfg.StudyRecordRevisits = b
		}
	}

	if v := getenv(EnvSessionTTL); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err == nil && d <= 0 {
			err = errors.New("must be positive")
		}
		if err != nil {
			warnf(EnvSessionTTL, v, err)
		} else {
			cfg.SessionTTL = d
		}
	}

	if v := getenv(EnvPassRatio); v != "" {
		r, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !(r > 0 && r <= 1) {
			err = errors.New("must be in (0, 1]")
		}
		if err != nil {
			warnf(EnvPassRatio, v, err)
		} else {
			cfg.PassRatio = r
		}
	}

	return cfg
}
