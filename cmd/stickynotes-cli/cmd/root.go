package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stickynotes/internal/adapters/filesystem"
	"stickynotes/internal/adapters/memory"
	"stickynotes/internal/adapters/sqlite"
	"stickynotes/internal/application"
	"stickynotes/internal/config"
	"stickynotes/internal/dom"
	"stickynotes/internal/logging"
	"stickynotes/internal/ports"
)

var (
	dbPath    string
	storeKind string
	pageURL   string
	docPath   string
	logLevel  string
	logJSON   bool

	store   ports.NoteStore
	closer  func() error
	session *application.Session
	logger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stickynotes-cli",
	Short: "CLI for managing sticky notes on web pages",
	Long: `stickynotes-cli manages sticky notes attached to web pages.

Notes are stored per page (the URL without its fragment). When an HTML
snapshot of the page is given with --doc, notes can be anchored to text
in it and the marked-up page can be rendered.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		format := logging.FormatText
		if logJSON {
			format = logging.FormatJSON
		}
		logger = logging.New(logLevel, format, os.Stderr)

		tuning, err := config.LoadTuning(config.TuningPath())
		if err != nil {
			return err
		}

		store, closer, err = openStore(storeKind, dbPath)
		if err != nil {
			return err
		}
		if pageURL == "" {
			return nil
		}

		var doc *dom.Document
		if docPath != "" {
			doc, err = dom.ParseFile(docPath)
			if err != nil {
				return err
			}
		}
		session = application.NewSession(pageURL, store, doc, tuning.SessionOptions(logger))
		if err := session.Load(cmd.Context()); err != nil {
			return err
		}
		if doc != nil {
			n := session.ReanchorAll()
			logger.WithField("anchored", n).Debug("re-anchored notes")
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		if session != nil {
			errs = append(errs, session.Close(cmd.Context()))
		}
		if closer != nil {
			errs = append(errs, closer())
		}
		return errors.Join(errs...)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DBPath(), "path to the notes database (a directory for --store json)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "sqlite", "storage backend (sqlite, json, memory)")
	rootCmd.PersistentFlags().StringVarP(&pageURL, "page", "p", "", "URL of the page the notes belong to")
	rootCmd.PersistentFlags().StringVarP(&docPath, "doc", "d", "", "HTML snapshot of the page")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.LogLevel(), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
}

// GetSession returns the session for --page
func GetSession() (*application.Session, error) {
	if session == nil {
		return nil, errors.New("--page is required")
	}
	return session, nil
}

// openStore opens the note store named by kind at path
func openStore(kind, path string) (ports.NoteStore, func() error, error) {
	switch kind {
	case "sqlite":
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "json":
		s, err := filesystem.NewStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "memory":
		return memory.NewStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (expected sqlite, json or memory)", kind)
	}
}
