package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"stickynotes/internal/adapters/memory"
	"stickynotes/internal/application"
	"stickynotes/internal/dom"
)

func newTestSession(t *testing.T) *application.Session {
	t.Helper()
	doc, err := dom.ParseString("<p>Remember to renew the domain before March.</p>")
	if err != nil {
		t.Fatal(err)
	}
	return application.NewSession("https://example.com/todo", memory.NewStore(), doc, application.Options{})
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to m and keeps feeding the messages produced by the
// returned commands until none are left.
func drive(t *testing.T, m tea.Model, msg tea.Msg) {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		_, cmd := m.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

func TestNotesModel_CreateToggleMove(t *testing.T) {
	s := newTestSession(t)
	m := NewNotesModel(s, func(string) error { return nil })
	drive(t, m, m.Init()())

	drive(t, m, keyMsg("n"))
	drive(t, m, keyMsg("n"))
	if got := len(m.Notes()); got != 2 {
		t.Fatalf("expected 2 notes, got %d", got)
	}
	second := m.Notes()[1].ID

	drive(t, m, keyMsg("m"))
	n, _ := s.Note(second)
	if !n.Minimized {
		t.Error("expected the newly created note to be selected and minimized")
	}

	drive(t, m, keyMsg("L"))
	drive(t, m, keyMsg("J"))
	n, _ = s.Note(second)
	if n.X != 60 || n.Y != 60 {
		t.Errorf("expected note moved to (60,60), got (%g,%g)", n.X, n.Y)
	}

	drive(t, m, keyMsg("+"))
	n, _ = s.Note(second)
	if n.Width != 240 || n.Height != 180 {
		t.Errorf("expected 240x180, got %gx%g", n.Width, n.Height)
	}

	if msg, isErr := m.Message(); isErr || msg == "" {
		t.Errorf("expected a success message, got %q (error=%v)", msg, isErr)
	}
}

func TestNotesModel_CopyQuote(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	n := s.CreateNote(ctx)

	var copied string
	m := NewNotesModel(s, func(text string) error {
		copied = text
		return nil
	})
	drive(t, m, m.Init()())

	drive(t, m, keyMsg("y"))
	if _, isErr := m.Message(); !isErr {
		t.Error("expected an error for a note without anchor")
	}

	var sel *dom.Range
	var err error
	s.Document().Read(func(root *html.Node) {
		sel, err = dom.SelectText(root, "renew the domain", 1)
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AttachToSelection(ctx, n.ID, sel); err != nil {
		t.Fatal(err)
	}
	drive(t, m, m.Reload()())

	drive(t, m, keyMsg("y"))
	if copied != "renew the domain" {
		t.Errorf("expected quote on clipboard, got %q", copied)
	}
	if !strings.Contains(m.View(), "anchored") {
		t.Error("expected the card to show its anchor state")
	}
}

func TestNotesModel_EmptyListIgnoresNoteKeys(t *testing.T) {
	m := NewNotesModel(newTestSession(t), func(string) error { return errors.New("unused") })
	drive(t, m, m.Init()())

	for _, k := range []string{"m", "d", "y", "L", "+"} {
		_, cmd := m.Update(keyMsg(k))
		if cmd != nil {
			t.Errorf("key %q: expected no command without a selected note", k)
		}
	}
	if !strings.Contains(m.View(), "No notes on this page") {
		t.Error("expected empty state hint")
	}
}
