package dom

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	ErrInvalidRange = errors.New("invalid range")
	ErrCollapsed    = errors.New("range is collapsed")
	ErrDetached     = errors.New("range is not attached to the document")
	ErrStructural   = errors.New("range crosses a boundary that forbids extraction")
)

// Range is a pair of boundary points in the same tree. A container is either
// a text node with a byte offset into its Data or a node with a child index.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewTextRange builds a range from two text positions.
func NewTextRange(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int) *Range {
	return &Range{
		StartContainer: startNode,
		StartOffset:    startOffset,
		EndContainer:   endNode,
		EndOffset:      endOffset,
	}
}

// Collapsed reports whether start and end are the same boundary point.
func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// CommonAncestor returns the deepest node containing both boundary points.
func (r *Range) CommonAncestor() *html.Node {
	return CommonAncestor(r.StartContainer, r.EndContainer)
}

// Check verifies that both points are in bounds, in the same tree and in
// order. It does not reject collapsed ranges.
func (r *Range) Check() error {
	if r == nil || r.StartContainer == nil || r.EndContainer == nil {
		return ErrInvalidRange
	}
	if r.StartOffset < 0 || r.StartOffset > Length(r.StartContainer) ||
		r.EndOffset < 0 || r.EndOffset > Length(r.EndContainer) {
		return ErrInvalidRange
	}
	if Root(r.StartContainer) != Root(r.EndContainer) {
		return ErrDetached
	}
	if ComparePoints(r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset) > 0 {
		return ErrInvalidRange
	}
	return nil
}

// ComparePoints orders two boundary points: -1 before, 0 equal, 1 after.
func ComparePoints(an *html.Node, ao int, bn *html.Node, bo int) int {
	if an == bn {
		switch {
		case ao < bo:
			return -1
		case ao > bo:
			return 1
		}
		return 0
	}
	if Contains(an, bn) {
		child := bn
		for child.Parent != an {
			child = child.Parent
		}
		if Index(child) < ao {
			return 1
		}
		return -1
	}
	if Contains(bn, an) {
		return -ComparePoints(bn, bo, an, ao)
	}
	return treeOrder(an, bn)
}

// Text returns the text selected by the range, verbatim.
func (r *Range) Text() string {
	if r.Check() != nil {
		return ""
	}
	var b strings.Builder
	Walk(r.CommonAncestor(), func(n *html.Node) bool {
		if IsElement(n, "script", "style") {
			return false
		}
		if n.Type != html.TextNode {
			return true
		}
		start, end := 0, len(n.Data)
		if n == r.StartContainer {
			start = r.StartOffset
		} else if ComparePoints(n, len(n.Data), r.StartContainer, r.StartOffset) <= 0 {
			return true
		}
		if n == r.EndContainer {
			end = r.EndOffset
		} else if ComparePoints(n, 0, r.EndContainer, r.EndOffset) >= 0 {
			return true
		}
		if start < end {
			b.WriteString(n.Data[start:end])
		}
		return true
	})
	return b.String()
}

// extractionBarrier lists elements that cannot be split by an extraction.
var extractionBarrier = map[string]bool{
	"html": true, "head": true, "body": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "td": true, "th": true, "colgroup": true,
	"select": true, "option": true, "optgroup": true,
}

// hostBarrier lists elements that may not receive a wrapper as a direct child.
var hostBarrier = map[string]bool{
	"html": true, "head": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "colgroup": true, "select": true, "optgroup": true,
}

// Attributes Surround leaves on a wrapper when it had to split elements at
// the start or end of the range. The value is the number of nested levels
// split, which Unwrap needs to join the halves again.
const (
	SplitStartAttr = "data-split-start"
	SplitEndAttr   = "data-split-end"
)

// Surround moves the contents of r into wrapper and inserts wrapper where
// the contents were. A boundary sitting at the very start or end of an
// element is first moved outside it, so fully covered elements move whole.
// Partially selected elements are split, the extracted half being a shallow
// clone, so that no text is lost or reordered. protected may mark extra
// elements that must not be split. The tree is left untouched when an error
// is returned.
func Surround(r *Range, wrapper *html.Node, protected func(*html.Node) bool) error {
	if err := r.Check(); err != nil {
		return err
	}
	if r.Collapsed() {
		return ErrCollapsed
	}
	if wrapper == nil || wrapper.Parent != nil {
		return ErrInvalidRange
	}

	sn, so := liftStart(r.StartContainer, r.StartOffset, r.EndContainer, protected)
	en, eo := liftEnd(r.EndContainer, r.EndOffset, sn, protected)

	startEl := containerElement(sn)
	endEl := containerElement(en)
	if startEl == nil || endEl == nil {
		return ErrDetached
	}
	host := CommonAncestor(startEl, endEl)
	if host == nil || host.Type == html.DocumentNode || hostBarrier[host.Data] {
		return ErrStructural
	}
	for _, el := range []*html.Node{startEl, endEl} {
		for n := el; n != host; n = n.Parent {
			if extractionBarrier[n.Data] || (protected != nil && protected(n)) {
				return ErrStructural
			}
		}
	}

	// Split the end first so the start offsets stay valid.
	end := splitAt(en, eo)
	start := splitAt(sn, so)

	if start.parent != end.parent {
		top := CommonAncestor(start.parent, end.parent)
		if d := depthBelow(start.parent, top); d > 0 {
			SetAttr(wrapper, SplitStartAttr, strconv.Itoa(d))
		}
		if d := depthBelow(end.parent, top); d > 0 {
			SetAttr(wrapper, SplitEndAttr, strconv.Itoa(d))
		}
	}

	nodes, at := extract(start, end)
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	at.parent.InsertBefore(wrapper, at.before)
	return nil
}

// Unwrap replaces el with its children and merges any text nodes that end up
// adjacent. Elements Surround split are joined back to their other half
// when that half still sits next to el.
func Unwrap(el *html.Node) bool {
	if el == nil || el.Parent == nil {
		return false
	}
	parent := el.Parent
	if d := splitDepth(el, SplitStartAttr); d > 0 && el.FirstChild != nil {
		joinAfter(el.PrevSibling, el.FirstChild, d)
	}
	if d := splitDepth(el, SplitEndAttr); d > 0 && el.LastChild != nil {
		joinBefore(el.NextSibling, el.LastChild, d)
	}
	for c := el.FirstChild; c != nil; c = el.FirstChild {
		el.RemoveChild(c)
		parent.InsertBefore(c, el)
	}
	parent.RemoveChild(el)
	MergeTextSiblings(parent)
	return true
}

// joinAfter moves the children of clone to the end of orig and drops clone.
// The first child of clone is itself joined with the last child of orig
// for the remaining depth.
func joinAfter(orig, clone *html.Node, depth int) {
	if !sameElement(orig, clone) {
		return
	}
	if depth > 1 && clone.FirstChild != nil {
		joinAfter(orig.LastChild, clone.FirstChild, depth-1)
	}
	for c := clone.FirstChild; c != nil; c = clone.FirstChild {
		clone.RemoveChild(c)
		orig.AppendChild(c)
	}
	clone.Parent.RemoveChild(clone)
	MergeTextSiblings(orig)
}

// joinBefore is joinAfter for a clone that precedes orig.
func joinBefore(orig, clone *html.Node, depth int) {
	if !sameElement(orig, clone) {
		return
	}
	if depth > 1 && clone.LastChild != nil {
		joinBefore(orig.FirstChild, clone.LastChild, depth-1)
	}
	for c := clone.LastChild; c != nil; c = clone.LastChild {
		clone.RemoveChild(c)
		orig.InsertBefore(c, orig.FirstChild)
	}
	clone.Parent.RemoveChild(clone)
	MergeTextSiblings(orig)
}

func sameElement(a, b *html.Node) bool {
	if a == nil || b == nil || a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if a.Data != b.Data || a.Namespace != b.Namespace || len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i] != b.Attr[i] {
			return false
		}
	}
	return true
}

func splitDepth(el *html.Node, key string) int {
	v, ok := Attr(el, key)
	if !ok {
		return 0
	}
	d, err := strconv.Atoi(v)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// liftStart moves a start boundary at the very beginning of an element to
// just before that element, repeatedly, while the element does not also
// hold the end boundary.
func liftStart(n *html.Node, offset int, other *html.Node, protected func(*html.Node) bool) (*html.Node, int) {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		if offset != 0 || n.Parent == nil {
			return n, offset
		}
		n, offset = n.Parent, Index(n)
	}
	for offset == 0 && liftable(n, other, protected) {
		n, offset = n.Parent, Index(n)
	}
	return n, offset
}

// liftEnd mirrors liftStart for an end boundary at the very end of an
// element.
func liftEnd(n *html.Node, offset int, other *html.Node, protected func(*html.Node) bool) (*html.Node, int) {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		if offset != len(n.Data) || n.Parent == nil {
			return n, offset
		}
		n, offset = n.Parent, Index(n)+1
	}
	for offset == ChildCount(n) && liftable(n, other, protected) {
		n, offset = n.Parent, Index(n)+1
	}
	return n, offset
}

func liftable(el, other *html.Node, protected func(*html.Node) bool) bool {
	return el.Type == html.ElementNode && el.Parent != nil &&
		!extractionBarrier[el.Data] && !Contains(el, other) &&
		(protected == nil || !protected(el))
}

func depthBelow(n, ancestor *html.Node) int {
	d := 0
	for ; n != nil && n != ancestor; n = n.Parent {
		d++
	}
	return d
}

func containerElement(n *html.Node) *html.Node {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		return n.Parent
	}
	return n
}

// point is a position between children: before `before`, or at the end of
// parent when before is nil.
type point struct {
	parent *html.Node
	before *html.Node
}

func splitAt(n *html.Node, offset int) point {
	if n.Type != html.TextNode && n.Type != html.CommentNode {
		return point{parent: n, before: ChildAt(n, offset)}
	}
	if offset <= 0 {
		return point{parent: n.Parent, before: n}
	}
	if offset >= len(n.Data) {
		return point{parent: n.Parent, before: n.NextSibling}
	}
	tail := &html.Node{Type: n.Type, Data: n.Data[offset:]}
	n.Data = n.Data[:offset]
	n.Parent.InsertBefore(tail, n.NextSibling)
	return point{parent: n.Parent, before: tail}
}

// extract detaches everything between start and end and returns it along
// with the position the contents were removed from.
func extract(start, end point) ([]*html.Node, point) {
	if start.parent == end.parent {
		var out []*html.Node
		for n := start.before; n != nil && n != end.before; {
			next := n.NextSibling
			start.parent.RemoveChild(n)
			out = append(out, n)
			n = next
		}
		return out, point{parent: end.parent, before: end.before}
	}

	host := CommonAncestor(start.parent, end.parent)
	var firstPartial, lastPartial *html.Node
	next := start.before
	if start.parent != host {
		firstPartial = childWithin(host, start.parent)
		next = firstPartial.NextSibling
	}
	stop := end.before
	if end.parent != host {
		lastPartial = childWithin(host, end.parent)
		stop = lastPartial
	}

	var out []*html.Node
	if firstPartial != nil {
		clone := shallowClone(firstPartial)
		inner, _ := extract(start, point{parent: firstPartial})
		for _, n := range inner {
			clone.AppendChild(n)
		}
		out = append(out, clone)
	}
	for n := next; n != nil && n != stop; {
		following := n.NextSibling
		host.RemoveChild(n)
		out = append(out, n)
		n = following
	}
	if lastPartial != nil {
		clone := shallowClone(lastPartial)
		inner, _ := extract(point{parent: lastPartial, before: lastPartial.FirstChild}, end)
		for _, n := range inner {
			clone.AppendChild(n)
		}
		out = append(out, clone)
	}
	return out, point{parent: host, before: stop}
}

// childWithin returns the child of ancestor that contains n.
func childWithin(ancestor, n *html.Node) *html.Node {
	for n.Parent != ancestor {
		n = n.Parent
	}
	return n
}
