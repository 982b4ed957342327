package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrTextNotFound is returned by SelectText when the requested occurrence
// does not exist.
var ErrTextNotFound = errors.New("text not found in document")

type textSpan struct {
	node  *html.Node
	start int
}

// SelectText returns a range over the n-th (1-based) verbatim occurrence of
// text in the document's text nodes, the way a user drag-selection would
// cover it. Script and style contents are ignored.
func SelectText(root *html.Node, text string, occurrence int) (*Range, error) {
	if text == "" {
		return nil, ErrTextNotFound
	}
	if occurrence < 1 {
		occurrence = 1
	}

	var b strings.Builder
	var spans []textSpan
	Walk(root, func(n *html.Node) bool {
		if IsElement(n, "script", "style") {
			return false
		}
		if n.Type == html.TextNode && n.Data != "" {
			spans = append(spans, textSpan{node: n, start: b.Len()})
			b.WriteString(n.Data)
		}
		return true
	})
	all := b.String()

	pos := -1
	from := 0
	for i := 0; i < occurrence; i++ {
		idx := strings.Index(all[from:], text)
		if idx < 0 {
			return nil, ErrTextNotFound
		}
		pos = from + idx
		from = pos + 1
	}

	startNode, startOff := locate(spans, pos)
	endNode, endOff := locate(spans, pos+len(text)-1)
	return NewTextRange(startNode, startOff, endNode, endOff+1), nil
}

func locate(spans []textSpan, pos int) (*html.Node, int) {
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].start <= pos {
			return spans[i].node, pos - spans[i].start
		}
	}
	return spans[0].node, 0
}
