package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"stickynotes/internal/adapters/browser"
	"stickynotes/internal/adapters/editor"
	"stickynotes/internal/adapters/sqlite"
	"stickynotes/internal/adapters/tui"
	"stickynotes/internal/application"
	"stickynotes/internal/config"
	"stickynotes/internal/dom"
	"stickynotes/internal/logging"
)

func main() {
	pageFlag := flag.String("page", "", "URL of the page the notes belong to")
	docFlag := flag.String("doc", "", "HTML snapshot of the page")
	dbFlag := flag.String("db", config.DBPath(), "path to the notes database")
	flag.Parse()

	if err := run(*pageFlag, *docFlag, *dbFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(pageURL, docPath, dbPath string) error {
	if pageURL == "" {
		return fmt.Errorf("-page is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, closeLog, err := newLogger(config.LogFile(), config.LogLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	tuning, err := config.LoadTuning(config.TuningPath())
	if err != nil {
		return err
	}

	// Initialize adapters
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var doc *dom.Document
	if docPath != "" {
		if doc, err = dom.ParseFile(docPath); err != nil {
			return err
		}
	}

	session := application.NewSession(pageURL, store, doc, tuning.SessionOptions(log))
	if err := session.Load(ctx); err != nil {
		return err
	}
	defer func() {
		if err := session.Close(context.Background()); err != nil {
			log.WithError(err).Warn("failed to save notes on exit")
		}
	}()
	if doc != nil {
		session.ReanchorAll()
		go watch(ctx, session, log)
	}

	// Create and run TUI app
	app := tui.NewApp(session, editor.NewOpener(config.Editor()))
	app.SetPageOpener(browser.NewOpener())
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newLogger logs to path, or nowhere when path is empty. The terminal
// belongs to the TUI.
func newLogger(path, level string) (*logrus.Logger, func() error, error) {
	if path == "" {
		return logging.Discard(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(config.ExpandHome(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.New(level, logging.FormatText, f), f.Close, nil
}

func watch(ctx context.Context, session *application.Session, log *logrus.Logger) {
	if err := session.Watch(ctx); err != nil {
		log.WithError(err).WithField("page", session.PageKey()).Warn("reanchor watcher stopped")
	}
}
