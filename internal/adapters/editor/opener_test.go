package editor

import (
	"errors"
	"testing"
)

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name      string
		preferred string
		editor    string
		visual    string
		wantArgs  []string
	}{
		{
			name:      "preferred with arguments",
			preferred: "code --wait",
			editor:    "vim",
			wantArgs:  []string{"code", "--wait", "/tmp/note.md"},
		},
		{
			name:     "EDITOR before VISUAL",
			editor:   "micro",
			visual:   "emacs",
			wantArgs: []string{"micro", "/tmp/note.md"},
		},
		{
			name:     "VISUAL when EDITOR unset",
			visual:   "emacs -nw",
			wantArgs: []string{"emacs", "-nw", "/tmp/note.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			o := NewOpener(tt.preferred)
			cmd, err := o.Command("/tmp/note.md")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("expected args %v, got %v", tt.wantArgs, cmd.Args)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d: expected %q, got %q", i, tt.wantArgs[i], cmd.Args[i])
				}
			}
		})
	}
}

func TestOpener_NoEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	o := NewOpener("")
	o.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if _, err := o.Command("/tmp/note.md"); err == nil {
		t.Error("expected error when no editor is available")
	}
}

func TestOpener_Fallback(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	o := NewOpener("")
	o.lookPath = func(name string) (string, error) {
		if name == "nano" {
			return "/usr/bin/nano", nil
		}
		return "", errors.New("not found")
	}

	cmd, err := o.Command("/tmp/note.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Args[0] != "/usr/bin/nano" {
		t.Errorf("expected nano fallback, got %v", cmd.Args)
	}
}
