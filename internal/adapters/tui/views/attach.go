package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"stickynotes/internal/adapters/tui/styles"
	"stickynotes/internal/application"
	"stickynotes/internal/application/commands"
	"stickynotes/internal/domain"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

// AttachModel asks for the text a note should be anchored to
type AttachModel struct {
	session    *application.Session
	note       domain.Note
	quote      textinput.Model
	occurrence textinput.Model
	focused    int
	keys       InputFormKeyMap
	err        error
	width      int
	height     int
}

// NewAttachModel creates a new attach view model
func NewAttachModel(session *application.Session) *AttachModel {
	quote := textinput.New()
	quote.Placeholder = "text on the page"
	quote.CharLimit = 500
	quote.Width = 50

	occ := textinput.New()
	occ.Placeholder = "1"
	occ.CharLimit = 4
	occ.Width = 6

	return &AttachModel{
		session:    session,
		quote:      quote,
		occurrence: occ,
		keys:       DefaultInputFormKeys,
	}
}

// SetNote resets the form for n
func (m *AttachModel) SetNote(n domain.Note) {
	m.note = n
	m.err = nil
	m.focused = 0
	m.quote.SetValue("")
	m.occurrence.SetValue("")
	m.quote.Focus()
	m.occurrence.Blur()
}

// Init initializes the attach view
func (m *AttachModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the attach view
func (m *AttachModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return SwitchToNotesMsg{} }
		case key.Matches(msg, m.keys.Tab):
			m.focusNext()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.quote, cmd = m.quote.Update(msg)
	} else {
		m.occurrence, cmd = m.occurrence.Update(msg)
	}
	return m, cmd
}

func (m *AttachModel) focusNext() {
	m.focused = (m.focused + 1) % 2
	if m.focused == 0 {
		m.occurrence.Blur()
		m.quote.Focus()
	} else {
		m.quote.Blur()
		m.occurrence.Focus()
	}
}

func (m *AttachModel) submit() tea.Cmd {
	occurrence := 1
	if v := strings.TrimSpace(m.occurrence.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			m.err = fmt.Errorf("occurrence must be a number, got: %s", v)
			return nil
		}
		occurrence = n
	}

	cmd := commands.NewAttachNoteCommand(m.session, m.note.ID, m.quote.Value(), occurrence)
	if err := cmd.Validate(); err != nil {
		m.err = err
		return nil
	}
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return actionDone("", err)
		}
		return actionDone(result.Message, nil)
	}
}

// View renders the attach view
func (m *AttachModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Attach Note " + shortID(m.note.ID)))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Text"))
	b.WriteString("\n")
	b.WriteString(styles.InputField.Render(m.quote.View()))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Occurrence"))
	b.WriteString("\n")
	b.WriteString(styles.InputField.Render(m.occurrence.View()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorMsg.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HelpKey.Render("enter"))
	b.WriteString(styles.HelpDesc.Render(" attach"))
	b.WriteString(styles.HelpSeparator.String())
	b.WriteString(styles.HelpKey.Render("tab"))
	b.WriteString(styles.HelpDesc.Render(" next field"))
	b.WriteString(styles.HelpSeparator.String())
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" cancel"))

	return styles.App.Render(b.String())
}

// SetSize updates the view dimensions
func (m *AttachModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
