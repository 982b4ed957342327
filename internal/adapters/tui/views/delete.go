package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"stickynotes/internal/adapters/tui/styles"
	"stickynotes/internal/application"
	"stickynotes/internal/application/commands"
	"stickynotes/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	session *application.Session
	target  domain.Note
	keys    ConfirmKeyMap
	width   int
	height  int
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(session *application.Session) *DeleteModel {
	return &DeleteModel{
		session: session,
		keys:    DefaultConfirmKeys,
	}
}

// SetTarget sets the note to delete
func (m *DeleteModel) SetTarget(n domain.Note) {
	m.target = n
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return SwitchToNotesMsg{} }
		case key.Matches(msg, m.keys.Confirm):
			return m, m.doDelete
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	result, err := commands.NewDeleteNoteCommand(m.session, m.target.ID).Execute(context.Background())
	if err != nil {
		return actionDone("", err)
	}
	return actionDone(result.Message, nil)
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Delete Note"))
	b.WriteString("\n\n")

	b.WriteString(styles.CardHeader.Render(shortID(m.target.ID)))
	if m.target.Text != "" {
		b.WriteString("  ")
		b.WriteString(styles.CardText.Render(truncate(m.target.Text, 60)))
	}
	b.WriteString("\n\n")

	if m.target.Anchor != nil {
		b.WriteString(styles.MutedText.Render("  The anchored text will be unmarked: "))
		b.WriteString(styles.Quote.Render(truncate(m.target.Anchor.Quote, 40)))
		b.WriteString("\n\n")
	}

	b.WriteString("Are you sure? ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))

	return styles.App.Render(b.String())
}

// SetSize updates the view dimensions
func (m *DeleteModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
