package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Default geometry for a freshly created note card
const (
	DefaultX      = 50
	DefaultY      = 50
	DefaultWidth  = 220
	DefaultHeight = 160
)

// AnchorRecord is a portable description of a text location: the selected
// quote plus a bounded window of context on either side.
type AnchorRecord struct {
	Quote  string `json:"quote"`
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// Valid reports whether the record can be matched at all
func (a AnchorRecord) Valid() bool {
	return strings.TrimSpace(a.Quote) != ""
}

// Note is a sticky note attached to a page, optionally anchored to text
type Note struct {
	ID        string        `json:"id"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Text      string        `json:"text"`
	Minimized bool          `json:"minimized"`
	Anchor    *AnchorRecord `json:"anchor,omitempty"`
}

// NewNoteID returns a fresh random note identifier
func NewNoteID() string {
	return uuid.NewString()
}

// NewNote creates an empty, default-positioned note
func NewNote() Note {
	return Note{
		ID:     NewNoteID(),
		X:      DefaultX,
		Y:      DefaultY,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// HasAnchor reports whether the note carries a matchable anchor
func (n Note) HasAnchor() bool {
	return n.Anchor != nil && n.Anchor.Valid()
}

// Clone returns a copy that shares no memory with n
func (n Note) Clone() Note {
	c := n
	if n.Anchor != nil {
		a := *n.Anchor
		c.Anchor = &a
	}
	return c
}

// CloneNotes deep-copies a note list
func CloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
