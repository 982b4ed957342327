package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDBPath_Env(t *testing.T) {
	t.Setenv("STICKYNOTES_DB", "/tmp/notes.db")
	if got := DBPath(); got != "/tmp/notes.db" {
		t.Errorf("expected env path, got %s", got)
	}

	t.Setenv("STICKYNOTES_DB", "")
	if got := DBPath(); got != DefaultDBPath {
		t.Errorf("expected default path, got %s", got)
	}
}

func TestLogLevel_Env(t *testing.T) {
	t.Setenv("STICKYNOTES_LOG_LEVEL", "debug")
	if got := LogLevel(); got != "debug" {
		t.Errorf("expected debug, got %s", got)
	}
	t.Setenv("STICKYNOTES_LOG_LEVEL", "")
	if got := LogLevel(); got != DefaultLogLevel {
		t.Errorf("expected default, got %s", got)
	}
}

func TestLogFile_Env(t *testing.T) {
	t.Setenv("STICKYNOTES_LOG_FILE", "/tmp/stickynotes.log")
	if got := LogFile(); got != "/tmp/stickynotes.log" {
		t.Errorf("expected env path, got %s", got)
	}
	t.Setenv("STICKYNOTES_LOG_FILE", "")
	if got := LogFile(); got != "" {
		t.Errorf("expected empty, got %s", got)
	}
}

func TestLoadTuning_Defaults(t *testing.T) {
	tuning, err := LoadTuning("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tuning.Matcher.ContextWindow != 80 || tuning.Matcher.FallbackChars != 10 {
		t.Errorf("unexpected matcher defaults: %+v", tuning.Matcher)
	}
	if tuning.Reanchor.MaxReactions != 10 {
		t.Errorf("unexpected reanchor defaults: %+v", tuning.Reanchor)
	}
	if tuning.SaveDebounce != DefaultSaveDebounce {
		t.Errorf("unexpected save debounce: %v", tuning.SaveDebounce)
	}
}

func TestLoadTuning_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
matcher:
  context_window: 120
  exact_weight: 5
reanchor:
  delay: 2s
  max_reactions: 3
save_debounce: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tuning.Matcher.ContextWindow != 120 || tuning.Matcher.ExactWeight != 5 {
		t.Errorf("file values not applied: %+v", tuning.Matcher)
	}
	if tuning.Matcher.FallbackChars != 10 || tuning.Matcher.PartialWeight != 1 {
		t.Errorf("defaults not kept: %+v", tuning.Matcher)
	}
	if tuning.Reanchor.Delay != 2*time.Second || tuning.Reanchor.MaxReactions != 3 {
		t.Errorf("reanchor values not applied: %+v", tuning.Reanchor)
	}
	if tuning.Reanchor.ObserveTimeout != 10*time.Second {
		t.Errorf("observe timeout default not kept: %v", tuning.Reanchor.ObserveTimeout)
	}
	if tuning.SaveDebounce != 250*time.Millisecond {
		t.Errorf("save debounce not applied: %v", tuning.SaveDebounce)
	}
}

func TestLoadTuning_Errors(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("matcher: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadTuning(path)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x/y.db"); got != filepath.Join(home, "x/y.db") {
		t.Errorf("unexpected expansion: %s", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %s", got)
	}
}
