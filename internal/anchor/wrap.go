package anchor

import (
	"errors"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"stickynotes/internal/dom"
)

var ErrNoRange = errors.New("no range to wrap")

// IsMarker reports whether n is an anchor marker element.
func IsMarker(n *html.Node) bool {
	if !dom.IsElement(n, "span") || !dom.HasClass(n, MarkerClass) {
		return false
	}
	_, ok := dom.Attr(n, NoteIDAttr)
	return ok
}

// MarkerNoteID returns the note id carried by a marker.
func MarkerNoteID(n *html.Node) (string, bool) {
	if !IsMarker(n) {
		return "", false
	}
	return dom.Attr(n, NoteIDAttr)
}

// FindMarker returns the marker for noteID under root, if any.
func FindMarker(root *html.Node, noteID string) *html.Node {
	return dom.Find(root, func(n *html.Node) bool {
		id, ok := MarkerNoteID(n)
		return ok && id == noteID
	})
}

// Markers returns every marker under root in document order.
func Markers(root *html.Node) []*html.Node {
	return dom.FindAll(root, IsMarker)
}

// EnclosingMarker returns the marker containing n, n included.
func EnclosingMarker(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if IsMarker(n) {
			return n
		}
	}
	return nil
}

// Wrap surrounds r with a marker for noteID. A marker already present for
// the note counts as success and nothing is created. It returns false when
// the range cannot be extracted; the tree is then left as it was.
func Wrap(root *html.Node, r *dom.Range, noteID string) bool {
	return WrapRange(root, r, noteID) == nil
}

// WrapRange is Wrap with the failure reason.
func WrapRange(root *html.Node, r *dom.Range, noteID string) error {
	if FindMarker(root, noteID) != nil {
		return nil
	}
	if r == nil {
		return ErrNoRange
	}
	if r.StartContainer == nil || r.EndContainer == nil ||
		!dom.Contains(root, r.StartContainer) || !dom.Contains(root, r.EndContainer) {
		return dom.ErrDetached
	}
	return dom.Surround(r, newMarker(noteID), IsMarker)
}

// Unwrap removes a marker and puts its contents back in place.
func Unwrap(marker *html.Node) bool {
	if !IsMarker(marker) {
		return false
	}
	return dom.Unwrap(marker)
}

func newMarker(noteID string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
		Attr: []html.Attribute{
			{Key: "class", Val: MarkerClass},
			{Key: NoteIDAttr, Val: noteID},
			{Key: "title", Val: "Sticky note"},
		},
	}
}
