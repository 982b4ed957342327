package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"stickynotes/internal/adapters/tui/styles"
	"stickynotes/internal/application"
	"stickynotes/internal/domain"
)

// EditKeyMap defines key bindings for the text editor view
type EditKeyMap struct {
	Done key.Binding
	Save key.Binding
}

var EditKeys = EditKeyMap{
	Done: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "done"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save now"),
	),
}

// EditModel edits a note's text in place. Every change goes to the session
// right away; the session debounces the writes.
type EditModel struct {
	session *application.Session
	note    domain.Note
	area    textarea.Model
	last    string
	err     error
	width   int
	height  int
}

// NewEditModel creates a new edit view model
func NewEditModel(session *application.Session) *EditModel {
	area := textarea.New()
	area.Placeholder = "Write a note..."
	area.ShowLineNumbers = false
	area.SetWidth(50)
	area.SetHeight(8)
	return &EditModel{session: session, area: area}
}

// SetNote loads the note to edit and focuses the editor
func (m *EditModel) SetNote(n domain.Note) {
	m.note = n
	m.last = n.Text
	m.err = nil
	m.area.SetValue(n.Text)
	m.area.Focus()
}

// Value returns the current editor contents
func (m *EditModel) Value() string {
	return m.area.Value()
}

// Init initializes the edit view
func (m *EditModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the edit view
func (m *EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, EditKeys.Done):
			m.area.Blur()
			return m, m.finish
		case key.Matches(msg, EditKeys.Save):
			m.err = m.session.Flush(context.Background())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if v := m.area.Value(); v != m.last {
		m.last = v
		m.err = m.session.EditText(m.note.ID, v)
	}
	return m, cmd
}

func (m *EditModel) finish() tea.Msg {
	if m.err != nil {
		return actionDone("", m.err)
	}
	if err := m.session.Flush(context.Background()); err != nil {
		return actionDone("", err)
	}
	return actionDone(fmt.Sprintf("Saved note %s", shortID(m.note.ID)), nil)
}

// View renders the edit view
func (m *EditModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Edit Note " + shortID(m.note.ID)))
	b.WriteString("\n")
	if m.note.Anchor != nil {
		b.WriteString(styles.Quote.Render(truncate(m.note.Anchor.Quote, 60)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.area.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorMsg.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" done"))
	b.WriteString(styles.HelpSeparator.String())
	b.WriteString(styles.HelpKey.Render("ctrl+s"))
	b.WriteString(styles.HelpDesc.Render(" save now"))

	return styles.App.Render(b.String())
}

// SetSize updates the view dimensions
func (m *EditModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 10 {
		m.area.SetWidth(min(width-8, 80))
	}
}
