package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestFlatten_EmptyDocument(t *testing.T) {
	idx := Flatten(&html.Node{Type: html.DocumentNode})
	assert.Equal(t, "", idx.Flat)
	assert.Empty(t, idx.Map)

	idx = Flatten(nil)
	assert.Equal(t, "", idx.Flat)
	assert.Equal(t, 0, idx.Len())
}

func TestFlatten_CollapsesAndExcludes(t *testing.T) {
	root := parse(t, `<p>Hello,
	   world&nbsp;&nbsp;again</p><script>x()</script><style>p{}</style>`+
		`<div class="sticky-note">ui</div><div data-sticky-ui>chrome</div>`+
		`<div contenteditable="true">edit</div><div contenteditable>bare</div>`+
		`<div contenteditable="false">ro</div><textarea>draft</textarea><p>next</p>`)

	idx := Flatten(root)
	assert.Equal(t, "Hello, world again ro next", idx.Flat)
	require.Len(t, idx.Map, len(idx.Flat))
}

func TestFlatten_MapPointsAtSource(t *testing.T) {
	root := parse(t, "<p>  café\t\tcrème </p><p><b>brûlée</b> done</p>")
	idx := Flatten(root)
	require.Len(t, idx.Map, len(idx.Flat))

	for i := 0; i < len(idx.Flat); i++ {
		loc := idx.Map[i]
		require.NotNil(t, loc.Node)
		require.Equal(t, html.TextNode, loc.Node.Type)
		if idx.Flat[i] == ' ' {
			continue
		}
		assert.Equal(t, idx.Flat[i], loc.Node.Data[loc.Offset], "byte %d", i)
	}
}

func TestFlatten_SeparatesAdjacentTextNodes(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"inline split", "<p>foo<b>bar</b></p>", "foo bar"},
		{"existing space kept single", "<p>foo <b>bar</b></p>", "foo bar"},
		{"blocks", "<p>one</p><p>two</p>", "one two"},
		{"whitespace-only node", "<p>a</p>\n\n<p>b</p>", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Flatten(parse(t, tt.src))
			assert.Equal(t, tt.expected, idx.Flat)
			assert.Len(t, idx.Map, len(idx.Flat))
		})
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	root := parse(t, "<div><h1>Title</h1><p>Some <i>styled</i>   text.</p></div>")
	a := Flatten(root)
	b := Flatten(root)
	assert.Equal(t, a.Flat, b.Flat)
	assert.Equal(t, len(a.Map), len(b.Map))
	assert.Equal(t, a.Map, b.Map)
}
