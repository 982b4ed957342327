package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"stickynotes/internal/anchor"
	"stickynotes/internal/application"
	"stickynotes/internal/reanchor"
)

const (
	DefaultDBPath       = "~/.local/share/stickynotes/notes.db"
	DefaultLogLevel     = "info"
	DefaultSaveDebounce = 400 * time.Millisecond
)

// DBPath returns the note database path from STICKYNOTES_DB,
// falling back to DefaultDBPath.
func DBPath() string {
	if env := os.Getenv("STICKYNOTES_DB"); env != "" {
		return env
	}
	return DefaultDBPath
}

// LogLevel returns STICKYNOTES_LOG_LEVEL or DefaultLogLevel.
func LogLevel() string {
	if env := os.Getenv("STICKYNOTES_LOG_LEVEL"); env != "" {
		return env
	}
	return DefaultLogLevel
}

// LogFile returns STICKYNOTES_LOG_FILE, where full-screen front ends send
// their logs. Empty means logs are dropped.
func LogFile() string {
	return os.Getenv("STICKYNOTES_LOG_FILE")
}

// TuningPath returns the optional tuning file from STICKYNOTES_CONFIG.
func TuningPath() string {
	return os.Getenv("STICKYNOTES_CONFIG")
}

// Editor returns STICKYNOTES_EDITOR, which overrides $EDITOR when set.
func Editor() string {
	return os.Getenv("STICKYNOTES_EDITOR")
}

// Tuning holds the empirical constants of matching, reanchoring and saving.
type Tuning struct {
	Matcher      anchor.Params   `yaml:"matcher"`
	Reanchor     reanchor.Policy `yaml:"reanchor"`
	SaveDebounce time.Duration   `yaml:"save_debounce"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		Matcher:      anchor.DefaultParams(),
		Reanchor:     reanchor.DefaultPolicy(),
		SaveDebounce: DefaultSaveDebounce,
	}
}

// LoadTuning reads a YAML tuning file. An empty path yields the defaults;
// fields missing from the file keep their defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	t.Matcher = t.Matcher.WithDefaults()
	t.Reanchor = t.Reanchor.WithDefaults()
	if t.SaveDebounce <= 0 {
		t.SaveDebounce = DefaultSaveDebounce
	}
	return t, nil
}

// SessionOptions turns the tuning into session options logging to log.
func (t Tuning) SessionOptions(log *logrus.Logger) application.Options {
	return application.Options{
		Matcher:      t.Matcher,
		Policy:       t.Reanchor,
		SaveDebounce: t.SaveDebounce,
		Logger:       log,
	}
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
