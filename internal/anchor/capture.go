package anchor

import (
	"errors"
	"strings"

	"golang.org/x/net/html"

	"stickynotes/internal/dom"
	"stickynotes/internal/domain"
)

var (
	ErrNoSelection        = errors.New("no selection")
	ErrCollapsedSelection = errors.New("selection is empty")
	ErrSelectionInUI      = errors.New("selection is inside a note")
	ErrBlankQuote         = errors.New("selection contains only whitespace")
)

// Capturer turns live selections into anchor records.
type Capturer struct {
	contextChars int
}

// NewCapturer creates a Capturer storing p.CaptureContext characters of
// context on each side.
func NewCapturer(p Params) *Capturer {
	return &Capturer{contextChars: p.WithDefaults().CaptureContext}
}

// Capture uses the default parameters.
func Capture(sel *dom.Range) (*domain.AnchorRecord, error) {
	return NewCapturer(DefaultParams()).Capture(sel)
}

// Capture builds an anchor record from sel. The quote is the selected text
// trimmed but otherwise verbatim. Prefix and suffix come from the text of
// the nearest enclosing element around the first occurrence of the quote;
// when the quote cannot be found there the record is returned with empty
// context, which still matches whenever the quote is unique.
func (c *Capturer) Capture(sel *dom.Range) (*domain.AnchorRecord, error) {
	if sel == nil || sel.Check() != nil {
		return nil, ErrNoSelection
	}
	if sel.Collapsed() {
		return nil, ErrCollapsedSelection
	}
	ancestor := sel.CommonAncestor()
	if InUI(ancestor) {
		return nil, ErrSelectionInUI
	}

	quote := strings.TrimSpace(sel.Text())
	if quote == "" {
		return nil, ErrBlankQuote
	}

	rec := &domain.AnchorRecord{Quote: quote}
	scope := dom.ClosestElement(ancestor)
	if scope == nil {
		return rec, nil
	}
	text := dom.TextContent(scope, func(n *html.Node) bool {
		return n != scope && Excluded(n)
	})
	at := strings.Index(text, quote)
	if at < 0 {
		return rec, nil
	}
	rec.Prefix = lastRunes(text[:at], c.contextChars)
	rec.Suffix = firstRunes(text[at+len(quote):], c.contextChars)
	return rec, nil
}

// InUI reports whether n sits inside annotation UI.
func InUI(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, ok := dom.Attr(n, UIAttr); ok || dom.HasClass(n, UIClass) {
			return true
		}
	}
	return false
}
