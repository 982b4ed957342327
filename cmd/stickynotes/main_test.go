package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"stickynotes/internal/adapters/memory"
	"stickynotes/internal/application"
)

func TestWatch_LogsWatcherError(t *testing.T) {
	log, hook := test.NewNullLogger()
	// Without a document the watcher cannot start.
	s := application.NewSession("https://example.com/", memory.NewStore(), nil, application.Options{})

	watch(context.Background(), s, log)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected the watcher error to be logged")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", entry.Level)
	}
	if entry.Data["page"] != s.PageKey() {
		t.Errorf("page field = %v", entry.Data["page"])
	}
}

func TestNewLogger(t *testing.T) {
	log, closeLog, err := newLogger("", "info")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	log.Info("dropped")
	closeLog()

	path := filepath.Join(t.TempDir(), "tui.log")
	log, closeLog, err = newLogger(path, "info")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	log.Info("kept")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "kept") {
		t.Errorf("log file = %q", data)
	}
}
