package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"stickynotes/internal/adapters/tui/styles"
	"stickynotes/internal/application"
	"stickynotes/internal/application/commands"
	"stickynotes/internal/domain"
)

const (
	moveStep   = 10
	resizeStep = 20
	minSize    = 40
)

// NotesKeyMap defines key bindings for the notes view
type NotesKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	New       key.Binding
	Edit      key.Binding
	External  key.Binding
	Toggle    key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	Attach    key.Binding
	Detach    key.Binding
	Delete    key.Binding
	CopyQuote key.Binding
	Reanchor  key.Binding
	OpenPage  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var NotesKeys = NotesKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new note"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter/e", "edit text"),
	),
	External: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "edit in $EDITOR"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("m", " "),
		key.WithHelp("m/space", "minimize/restore"),
	),
	MoveLeft: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("H", "move left"),
	),
	MoveRight: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("L", "move right"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Grow: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "grow"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "shrink"),
	),
	Attach: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "attach to text"),
	),
	Detach: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "detach"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	CopyQuote: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy quote"),
	),
	Reanchor: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "re-anchor"),
	),
	OpenPage: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open page"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NotesModel lists the notes of one page as cards
type NotesModel struct {
	session    *application.Session
	copyText   func(string) error
	notes      []domain.Note
	anchored   map[string]bool
	cursor     int
	width      int
	height     int
	message    string
	messageErr bool
	focus      string
}

// NewNotesModel creates a notes view. copyText defaults to the system
// clipboard.
func NewNotesModel(session *application.Session, copyText func(string) error) *NotesModel {
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	return &NotesModel{
		session:  session,
		copyText: copyText,
		anchored: map[string]bool{},
	}
}

type notesLoadedMsg struct {
	notes    []domain.Note
	anchored map[string]bool
}

// Init initializes the notes view
func (m *NotesModel) Init() tea.Cmd {
	return m.load
}

func (m *NotesModel) load() tea.Msg {
	return notesLoadedMsg{notes: m.session.Notes(), anchored: m.session.Anchored()}
}

// Reload refreshes the list from the session
func (m *NotesModel) Reload() tea.Cmd {
	return m.load
}

// Notes returns the notes currently shown
func (m *NotesModel) Notes() []domain.Note {
	return m.notes
}

// Message returns the status line and whether it reports an error
func (m *NotesModel) Message() (string, bool) {
	return m.message, m.messageErr
}

// Update handles messages for the notes view
func (m *NotesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case notesLoadedMsg:
		m.notes = msg.notes
		m.anchored = msg.anchored
		if m.focus != "" {
			for i, n := range m.notes {
				if n.ID == m.focus {
					m.cursor = i
				}
			}
			m.focus = ""
		}
		if m.cursor >= len(m.notes) {
			m.cursor = max(len(m.notes)-1, 0)
		}
		return m, nil

	case ActionDoneMsg:
		m.SetMessage(msg)
		m.focus = msg.Focus
		return m, m.load

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *NotesModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, NotesKeys.Quit):
		return tea.Quit

	case key.Matches(msg, NotesKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, NotesKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil

	case key.Matches(msg, NotesKeys.Down):
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
		return nil

	case key.Matches(msg, NotesKeys.New):
		return m.createNote

	case key.Matches(msg, NotesKeys.Reanchor):
		return m.reanchor

	case key.Matches(msg, NotesKeys.OpenPage):
		return func() tea.Msg { return OpenPageMsg{} }
	}

	n, ok := m.selected()
	if !ok {
		return nil
	}

	switch {
	case key.Matches(msg, NotesKeys.Edit):
		return func() tea.Msg { return SwitchToEditMsg{Note: n} }
	case key.Matches(msg, NotesKeys.External):
		return func() tea.Msg { return OpenEditorMsg{Note: n} }
	case key.Matches(msg, NotesKeys.Attach):
		return func() tea.Msg { return SwitchToAttachMsg{Note: n} }
	case key.Matches(msg, NotesKeys.Delete):
		return func() tea.Msg { return SwitchToDeleteMsg{Note: n} }
	case key.Matches(msg, NotesKeys.Toggle):
		return run(commands.NewToggleNoteCommand(m.session, n.ID))
	case key.Matches(msg, NotesKeys.Detach):
		return run(commands.NewDetachNoteCommand(m.session, n.ID))
	case key.Matches(msg, NotesKeys.MoveLeft):
		return run(commands.NewMoveNoteCommand(m.session, n.ID, n.X-moveStep, n.Y))
	case key.Matches(msg, NotesKeys.MoveRight):
		return run(commands.NewMoveNoteCommand(m.session, n.ID, n.X+moveStep, n.Y))
	case key.Matches(msg, NotesKeys.MoveUp):
		return run(commands.NewMoveNoteCommand(m.session, n.ID, n.X, n.Y-moveStep))
	case key.Matches(msg, NotesKeys.MoveDown):
		return run(commands.NewMoveNoteCommand(m.session, n.ID, n.X, n.Y+moveStep))
	case key.Matches(msg, NotesKeys.Grow):
		return run(commands.NewResizeNoteCommand(m.session, n.ID, n.Width+resizeStep, n.Height+resizeStep))
	case key.Matches(msg, NotesKeys.Shrink):
		w := max(n.Width-resizeStep, minSize)
		h := max(n.Height-resizeStep, minSize)
		return run(commands.NewResizeNoteCommand(m.session, n.ID, w, h))
	case key.Matches(msg, NotesKeys.CopyQuote):
		return m.copyQuote(n)
	}
	return nil
}

func (m *NotesModel) createNote() tea.Msg {
	ctx := context.Background()
	n, err := m.session.HandleMessage(ctx, application.Message{Type: application.MessageCreateNote})
	if err != nil {
		return actionDone("", err)
	}
	done := actionDone(fmt.Sprintf("Created note %s", shortID(n.ID)), nil)
	done.Focus = n.ID
	return done
}

func (m *NotesModel) reanchor() tea.Msg {
	placed := m.session.ReanchorAll()
	return actionDone(fmt.Sprintf("Placed %d anchor(s)", placed), nil)
}

func (m *NotesModel) copyQuote(n domain.Note) tea.Cmd {
	return func() tea.Msg {
		if n.Anchor == nil {
			return actionDone("", fmt.Errorf("note %s has no anchor", shortID(n.ID)))
		}
		if err := m.copyText(n.Anchor.Quote); err != nil {
			return actionDone("", fmt.Errorf("copying quote: %w", err))
		}
		return actionDone("Copied quote to clipboard", nil)
	}
}

type updateCommand interface {
	Execute(ctx context.Context) (*commands.UpdateNoteResult, error)
}

// run executes a command and reports its Message field
func run(cmd updateCommand) tea.Cmd {
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return actionDone("", err)
		}
		return actionDone(result.Message, nil)
	}
}

func (m *NotesModel) selected() (domain.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.notes) {
		return domain.Note{}, false
	}
	return m.notes[m.cursor], true
}

// SetMessage shows the outcome of an action in the status line
func (m *NotesModel) SetMessage(msg ActionDoneMsg) {
	if msg.Err != nil {
		m.message = msg.Err.Error()
		m.messageErr = true
		return
	}
	m.message = msg.Message
	m.messageErr = false
}

// View renders the notes view
func (m *NotesModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Sticky Notes"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(domain.PageURL(m.session.PageKey())))
	b.WriteString("\n\n")

	if len(m.notes) == 0 {
		b.WriteString(styles.MutedText.Render("No notes on this page. Press n to create one."))
		b.WriteString("\n")
	}
	for i, n := range m.notes {
		b.WriteString(m.renderCard(n, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.message != "" {
		if m.messageErr {
			b.WriteString(styles.ErrorMsg.Render(m.message))
		} else {
			b.WriteString(styles.Success.Render(m.message))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *NotesModel) renderCard(n domain.Note, selected bool) string {
	header := fmt.Sprintf("%s  (%g,%g) %gx%g", shortID(n.ID), n.X, n.Y, n.Width, n.Height)

	var body strings.Builder
	body.WriteString(styles.CardHeader.Render(header))
	if n.Anchor != nil {
		marked := m.anchored[n.ID]
		badge := "unanchored"
		if marked {
			badge = "anchored"
		}
		body.WriteString("  ")
		body.WriteString(styles.AnchorStyle(marked).Render(badge))
		body.WriteString("\n")
		body.WriteString(styles.Quote.Render(truncate(n.Anchor.Quote, 60)))
	}
	body.WriteString("\n")

	switch {
	case n.Minimized:
		body.WriteString(styles.CardMinimized.Render("minimized"))
	case n.Text == "":
		body.WriteString(styles.MutedText.Render("(empty)"))
	default:
		body.WriteString(styles.CardText.Render(n.Text))
	}

	card := styles.Card
	if selected {
		card = styles.CardSelected
	}
	if w := int(n.Width / 4); w > minSize/4 {
		card = card.Width(w)
	}
	return card.Render(body.String())
}

func (m *NotesModel) renderHelpLine() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"j/k", "navigate"},
		{"n", "new"},
		{"e", "edit"},
		{"a", "attach"},
		{"m", "minimize"},
		{"d", "delete"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(k.key),
			styles.HelpDesc.Render(k.desc),
		))
	}

	return strings.Join(parts, styles.HelpSeparator.String())
}

// SetSize updates the view dimensions
func (m *NotesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
