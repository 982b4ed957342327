package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"stickynotes/internal/ports"
)

// fallbacks are tried in order when no editor is configured
var fallbacks = []string{"nvim", "vim", "vi", "nano"}

// Opener implements ports.EditorOpener
type Opener struct {
	preferred string
	lookPath  func(string) (string, error)
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates an editor opener. preferred overrides $EDITOR and
// $VISUAL when non-empty and may carry arguments, e.g. "code --wait".
func NewOpener(preferred string) *Opener {
	return &Opener{preferred: preferred, lookPath: exec.LookPath}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := o.editorArgs()
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

func (o *Opener) editorArgs() []string {
	for _, candidate := range []string{o.preferred, os.Getenv("EDITOR"), os.Getenv("VISUAL")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}

	for _, name := range fallbacks {
		if path, err := o.lookPath(name); err == nil {
			return []string{path}
		}
	}

	return nil
}
