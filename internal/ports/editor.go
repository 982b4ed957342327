package ports

import "os/exec"

// EditorOpener launches the user's editor on a file
type EditorOpener interface {
	// OpenFile edits path and waits for the editor to exit
	OpenFile(path string) error

	// Command returns the editor process for path without starting it,
	// for callers that manage the terminal themselves
	Command(path string) (*exec.Cmd, error)
}
