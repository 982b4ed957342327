package anchor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"stickynotes/internal/dom"
	"stickynotes/internal/domain"
)

func TestWrap_CreatesMarker(t *testing.T) {
	root := parse(t, "<p>the annual report for Q3</p>")

	require.True(t, Wrap(root, selectText(t, root, "annual report", 1), "n1"))
	m := FindMarker(root, "n1")
	require.NotNil(t, m)
	assert.True(t, dom.HasClass(m, MarkerClass))
	id, ok := MarkerNoteID(m)
	assert.True(t, ok)
	assert.Equal(t, "n1", id)
	assert.Equal(t, "annual report", dom.TextContent(m, nil))
	assert.Equal(t, `<p>the <span class="sticky-note-anchor" data-note-id="n1" title="Sticky note">annual report</span> for Q3</p>`,
		renderNode(t, body(t, root).FirstChild))
}

func TestWrap_Idempotent(t *testing.T) {
	root := parse(t, "<p>the annual report for Q3</p>")

	require.True(t, Wrap(root, selectText(t, root, "annual report", 1), "n1"))
	require.True(t, Wrap(root, selectText(t, root, "for Q3", 1), "n1"))
	require.True(t, Wrap(root, nil, "n1"))

	assert.Len(t, Markers(root), 1)
	assert.Equal(t, "annual report", dom.TextContent(FindMarker(root, "n1"), nil))
}

func TestWrap_FailureLeavesDocumentIntact(t *testing.T) {
	root := parse(t, "<table><tbody><tr><td>cell one</td><td>cell two</td></tr></tbody></table>")
	before := renderNode(t, root)

	assert.False(t, Wrap(root, selectText(t, root, "onecell", 1), "n1"))
	assert.Equal(t, before, renderNode(t, root))
	assert.Nil(t, FindMarker(root, "n1"))

	assert.False(t, Wrap(root, nil, "n2"))
	assert.ErrorIs(t, WrapRange(root, nil, "n2"), ErrNoRange)

	other := parse(t, "<p>elsewhere</p>")
	assert.ErrorIs(t, WrapRange(root, selectText(t, other, "else", 1), "n3"), dom.ErrDetached)
}

func TestWrap_DoesNotSplitAnotherMarker(t *testing.T) {
	root := parse(t, "<p>the annual report for Q3</p>")
	require.True(t, Wrap(root, selectText(t, root, "annual report", 1), "a"))

	// Overlaps half of marker "a".
	assert.False(t, Wrap(root, selectText(t, root, "the annual", 1), "b"))
	assert.Nil(t, FindMarker(root, "b"))

	// Fully containing marker "a" is fine; it nests inside "b".
	require.True(t, Wrap(root, selectText(t, root, "the annual report for", 1), "b"))
	outer := FindMarker(root, "b")
	inner := FindMarker(root, "a")
	require.NotNil(t, outer)
	assert.Same(t, outer, EnclosingMarker(inner.Parent))
	assert.Len(t, Markers(root), 2)
}

func TestUnwrap_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		quote string
	}{
		{"inside one node", "<p>the annual report for Q3</p>", "annual report"},
		{"whole paragraph text", "<p>annual report</p>", "annual report"},
		{"across inline element", "<p>the <b>annual</b> report for Q3</p>", "annual report"},
		{"splitting inline element", "<p>the <b>big annual</b> report for Q3</p>", "annual report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parse(t, tt.src)
			b := body(t, root)
			before := renderNode(t, b)
			text := dom.TextContent(b, nil)

			m := Match(domain.AnchorRecord{Quote: tt.quote}, Flatten(root))
			require.NotNil(t, m)
			require.True(t, Wrap(root, m.Range(), "n1"))
			assert.Equal(t, text, dom.TextContent(b, nil))

			require.True(t, Unwrap(FindMarker(root, "n1")))
			assert.Equal(t, text, dom.TextContent(b, nil))
			assert.Equal(t, before, renderNode(t, b))
			assert.Empty(t, Markers(root))
		})
	}

	assert.False(t, Unwrap(nil))
	root := parse(t, "<p><span>plain</span></p>")
	assert.False(t, Unwrap(dom.Find(root, func(n *html.Node) bool { return dom.IsElement(n, "span") })))
}

// The end-to-end flow: capture on one page load, persist, re-render the
// page with unrelated content around it, relocate and wrap.
func TestAnchor_EndToEnd(t *testing.T) {
	first := parse(t, "<p>We published the annual report for Q3 today.</p>")
	rec, err := Capture(selectText(t, first, "annual report", 1))
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	var stored domain.AnchorRecord
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, *rec, stored)

	second := parse(t, "<header><nav>Home | annual archive</nav></header>"+
		"<main><h1>News</h1><p>We published the annual report for Q3 today.</p></main>"+
		"<footer>See the annual report index</footer>")
	target := dom.Find(second, func(n *html.Node) bool { return dom.IsElement(n, "p") }).FirstChild

	m := Match(stored, Flatten(second))
	require.NotNil(t, m)
	assert.Same(t, target, m.StartNode)
	assert.Same(t, target, m.EndNode)
	assert.Equal(t, 17, m.StartOffset)
	assert.Equal(t, 30, m.EndOffset)

	require.True(t, Wrap(second, m.Range(), "note-42"))
	marker := FindMarker(second, "note-42")
	require.NotNil(t, marker)
	v, _ := dom.Attr(marker, "data-note-id")
	assert.Equal(t, "note-42", v)
	assert.Equal(t, "annual report", dom.TextContent(marker, nil))
}
