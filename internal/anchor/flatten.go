package anchor

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"stickynotes/internal/dom"
)

// Attribute and class names shared with the note UI.
const (
	MarkerClass = "sticky-note-anchor"
	NoteIDAttr  = "data-note-id"
	UIAttr      = "data-sticky-ui"
	UIClass     = "sticky-note"
)

// nonRendered lists containers whose text never reaches the screen, plus
// form controls whose contents are live user input.
var nonRendered = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"head": true, "textarea": true, "iframe": true, "object": true,
}

// Location is the source position of one byte of flattened text.
type Location struct {
	Node   *html.Node
	Offset int
}

// FlatIndex is the whitespace-normalized text of a document together with
// the source location of every byte. len(Map) == len(Flat) always holds.
type FlatIndex struct {
	Flat string
	Map  []Location
}

// Len returns the length of the flat text in bytes.
func (f *FlatIndex) Len() int {
	return len(f.Flat)
}

// Excluded reports whether the subtree rooted at n is left out of the flat
// text: non-rendered containers, annotation UI and editable regions.
func Excluded(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if nonRendered[n.Data] {
		return true
	}
	if _, ok := dom.Attr(n, UIAttr); ok || dom.HasClass(n, UIClass) {
		return true
	}
	if v, ok := dom.Attr(n, "contenteditable"); ok && v != "false" {
		return true
	}
	return false
}

// Flatten walks the visible text under root in document order. Whitespace
// runs collapse to a single space and a space is inserted between adjacent
// text nodes so that text split across elements does not run together.
func Flatten(root *html.Node) *FlatIndex {
	idx := &FlatIndex{Map: []Location{}}
	if root == nil {
		return idx
	}

	flat := make([]byte, 0, 1024)
	endsInSpace := func() bool {
		return len(flat) > 0 && flat[len(flat)-1] == ' '
	}

	dom.Walk(root, func(n *html.Node) bool {
		if Excluded(n) {
			return false
		}
		if n.Type != html.TextNode || n.Data == "" {
			return true
		}

		text := n.Data
		if len(flat) > 0 && !endsInSpace() {
			flat = append(flat, ' ')
			idx.Map = append(idx.Map, Location{Node: n, Offset: 0})
		}
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				if !endsInSpace() {
					flat = append(flat, ' ')
					idx.Map = append(idx.Map, Location{Node: n, Offset: i})
				}
				i += size
				continue
			}
			for k := 0; k < size; k++ {
				flat = append(flat, text[i+k])
				idx.Map = append(idx.Map, Location{Node: n, Offset: i + k})
			}
			i += size
		}
		return true
	})

	idx.Flat = string(flat)
	return idx
}
