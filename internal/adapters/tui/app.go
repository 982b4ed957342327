package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"stickynotes/internal/adapters/tui/views"
	"stickynotes/internal/application"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewNotes ViewState = iota
	ViewEdit
	ViewAttach
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	session *application.Session
	editor  ports.EditorOpener
	browser ports.PageOpener

	state  ViewState
	notes  *views.NotesModel
	edit   *views.EditModel
	attach *views.AttachModel
	remove *views.DeleteModel
	help   *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed may be nil to disable external
// editing.
func NewApp(session *application.Session, ed ports.EditorOpener) *App {
	return &App{
		session: session,
		editor:  ed,
		state:   ViewNotes,
		notes:   views.NewNotesModel(session, nil),
		edit:    views.NewEditModel(session),
		attach:  views.NewAttachModel(session),
		remove:  views.NewDeleteModel(session),
		help:    views.NewHelpModel(),
	}
}

// SetPageOpener sets how the page itself is shown. Without one the open
// page action reports an error.
func (a *App) SetPageOpener(p ports.PageOpener) {
	a.browser = p
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.notes.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.notes.SetSize(msg.Width, msg.Height)
		a.edit.SetSize(msg.Width, msg.Height)
		a.attach.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToEditMsg:
		a.state = ViewEdit
		a.edit.SetNote(msg.Note)
		return a, a.edit.Init()

	case views.SwitchToAttachMsg:
		a.state = ViewAttach
		a.attach.SetNote(msg.Note)
		return a, a.attach.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.remove.SetTarget(msg.Note)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToNotesMsg:
		a.state = ViewNotes
		return a, a.notes.Reload()

	case views.ActionDoneMsg:
		a.state = ViewNotes
		_, cmd := a.notes.Update(msg)
		return a, cmd

	case views.OpenEditorMsg:
		a.state = ViewNotes
		return a, a.openEditor(msg)

	case views.OpenPageMsg:
		return a, a.openPage()

	case editorFinishedMsg:
		return a, a.editorFinished(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewNotes:
		_, cmd = a.notes.Update(msg)
	case ViewEdit:
		_, cmd = a.edit.Update(msg)
	case ViewAttach:
		_, cmd = a.attach.Update(msg)
	case ViewDelete:
		_, cmd = a.remove.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	noteID string
	path   string
	err    error
}

// openEditor writes the note text to a temporary file and hands it to the
// user's editor.
func (a *App) openEditor(msg views.OpenEditorMsg) tea.Cmd {
	if a.editor == nil {
		return done("", fmt.Errorf("no editor configured"))
	}

	f, err := os.CreateTemp("", "stickynote-*.md")
	if err != nil {
		return done("", fmt.Errorf("creating temp file: %w", err))
	}
	path := f.Name()
	_, err = f.WriteString(msg.Note.Text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return done("", fmt.Errorf("writing temp file: %w", err))
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		os.Remove(path)
		return done("", err)
	}

	id := msg.Note.ID
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{noteID: id, path: path, err: err}
	})
}

func (a *App) editorFinished(msg editorFinishedMsg) tea.Cmd {
	defer os.Remove(msg.path)
	if msg.err != nil {
		return done("", fmt.Errorf("editor: %w", msg.err))
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		return done("", fmt.Errorf("reading edited note: %w", err))
	}
	text := strings.TrimRight(string(data), "\n")
	if err := a.session.EditText(msg.noteID, text); err != nil {
		return done("", err)
	}
	if err := a.session.Flush(context.Background()); err != nil {
		return done("", err)
	}
	return done("Saved note from editor", nil)
}

func (a *App) openPage() tea.Cmd {
	if a.browser == nil {
		return done("", fmt.Errorf("no browser configured"))
	}
	browser := a.browser
	url := domain.PageURL(a.session.PageKey())
	return func() tea.Msg {
		if err := browser.OpenURL(url); err != nil {
			return views.ActionDoneMsg{Err: fmt.Errorf("opening %s: %w", url, err)}
		}
		return views.ActionDoneMsg{Message: "Opened " + url}
	}
}

func done(message string, err error) tea.Cmd {
	return func() tea.Msg {
		return views.ActionDoneMsg{Message: message, Err: err}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewEdit:
		return a.edit.View()
	case ViewAttach:
		return a.attach.View()
	case ViewDelete:
		return a.remove.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.notes.View()
	}
}
