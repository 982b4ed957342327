package anchor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"stickynotes/internal/dom"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	var root *html.Node
	doc.Read(func(r *html.Node) { root = r })
	return root
}

func body(t *testing.T, root *html.Node) *html.Node {
	t.Helper()
	b := dom.Find(root, func(n *html.Node) bool { return dom.IsElement(n, "body") })
	require.NotNil(t, b)
	return b
}

func renderNode(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func selectText(t *testing.T, root *html.Node, text string, n int) *dom.Range {
	t.Helper()
	r, err := dom.SelectText(root, text, n)
	require.NoError(t, err)
	return r
}
