// Package dom wraps golang.org/x/net/html trees with the small amount of
// DOM behaviour the anchoring engine needs: tree-order comparison, ranges,
// range extraction and an observable, lock-guarded document.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether n carries class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with one of the given tag names.
// With no tags it reports whether n is an element at all.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Index returns the position of n among its siblings.
func Index(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}

// ChildAt returns the i-th child of n, or nil when i is past the last child.
func ChildAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Length is the boundary-point length of n: bytes for text and comments,
// children for everything else.
func Length(n *html.Node) int {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return len(n.Data)
	default:
		return ChildCount(n)
	}
}

// Contains reports whether a is an inclusive ancestor of b.
func Contains(a, b *html.Node) bool {
	for n := b; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of n.
func Root(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// CommonAncestor returns the deepest inclusive ancestor shared by a and b,
// or nil when they live in different trees.
func CommonAncestor(a, b *html.Node) *html.Node {
	for n := a; n != nil; n = n.Parent {
		if Contains(n, b) {
			return n
		}
	}
	return nil
}

// ClosestElement returns n itself when it is an element, else its nearest
// element ancestor.
func ClosestElement(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// TextContent concatenates the text nodes under n, skipping any subtree for
// which skip returns true. A nil skip keeps everything.
func TextContent(n *html.Node, skip func(*html.Node) bool) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if skip != nil && skip(c) {
			return false
		}
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Find returns the first node under root for which match is true.
func Find(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node under root for which match is true, in
// document order.
func FindAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// MergeTextSiblings joins adjacent text children of parent into single nodes.
func MergeTextSiblings(parent *html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			parent.RemoveChild(next)
			continue
		}
		c = next
	}
}

func shallowClone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// treeOrder compares two nodes that are not ancestors of one another.
func treeOrder(a, b *html.Node) int {
	pa := ancestors(a)
	pb := ancestors(b)
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	if i == 0 || i >= len(pa) || i >= len(pb) {
		return 0
	}
	if Index(pa[i]) < Index(pb[i]) {
		return -1
	}
	return 1
}

// ancestors returns the chain from the root down to n inclusive.
func ancestors(n *html.Node) []*html.Node {
	var chain []*html.Node
	for ; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
