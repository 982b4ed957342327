package views

import "stickynotes/internal/domain"

// Messages for view switching
type SwitchToNotesMsg struct{}

type SwitchToEditMsg struct {
	Note domain.Note
}

type SwitchToAttachMsg struct {
	Note domain.Note
}

type SwitchToDeleteMsg struct {
	Note domain.Note
}

type SwitchToHelpMsg struct{}

// OpenEditorMsg asks the app to edit a note's text in $EDITOR
type OpenEditorMsg struct {
	Note domain.Note
}

// OpenPageMsg asks the app to show the session's page in a browser
type OpenPageMsg struct{}

// ActionDoneMsg reports the outcome of a note operation
type ActionDoneMsg struct {
	Message string
	Err     error
	Focus   string
}

func actionDone(message string, err error) ActionDoneMsg {
	return ActionDoneMsg{Message: message, Err: err}
}
