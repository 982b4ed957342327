package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// DefaultObserveBuffer is the number of pending notifications a subscription
// holds before further ones are coalesced.
const DefaultObserveBuffer = 16

// Mutation is delivered to observers after a change made through Mutate.
type Mutation struct {
	At time.Time
}

// Subscription receives mutation notifications until cancelled.
type Subscription struct {
	C <-chan Mutation

	ch     chan Mutation
	doc    *Document
	once   sync.Once
	closed chan struct{}
}

// Cancel stops delivery. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.doc.unsubscribe(s)
		close(s.closed)
	})
}

// Done is closed once the subscription has been cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.closed
}

// Document is a parsed page whose tree may only be touched while holding its
// lock. Changes made through Mutate are announced to observers; changes made
// through Update are not, which keeps annotation markers from re-triggering
// the watchers that placed them.
type Document struct {
	mu   sync.Mutex
	root *html.Node

	subMu sync.Mutex
	subs  map[*Subscription]struct{}
}

// NewDocument wraps an already parsed tree.
func NewDocument(root *html.Node) *Document {
	if root == nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return &Document{root: root, subs: make(map[*Subscription]struct{})}
}

// Parse reads HTML from r into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile loads an HTML document from disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Read runs fn with the tree locked for inspection.
func (d *Document) Read(fn func(root *html.Node)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.root)
}

// Update runs fn with the tree locked for modification without notifying
// observers.
func (d *Document) Update(fn func(root *html.Node)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.root)
}

// Mutate runs fn with the tree locked and notifies observers afterwards.
func (d *Document) Mutate(fn func(root *html.Node)) {
	d.mu.Lock()
	fn(d.root)
	d.mu.Unlock()
	d.notify()
}

// Replace swaps the document contents for a freshly parsed page and
// notifies observers, the way a client-side re-render would.
func (d *Document) Replace(r io.Reader) error {
	fresh, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}
	d.Mutate(func(root *html.Node) {
		for c := root.FirstChild; c != nil; c = root.FirstChild {
			root.RemoveChild(c)
		}
		for c := fresh.FirstChild; c != nil; c = fresh.FirstChild {
			fresh.RemoveChild(c)
			root.AppendChild(c)
		}
	})
	return nil
}

// Render serializes the current tree.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	var err error
	d.Read(func(root *html.Node) {
		err = html.Render(&buf, root)
	})
	if err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.String(), nil
}

// Observe subscribes to mutations. A buffer of zero uses
// DefaultObserveBuffer; notifications beyond a full buffer are dropped since
// a pending one already signals that the tree changed.
func (d *Document) Observe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultObserveBuffer
	}
	ch := make(chan Mutation, buffer)
	s := &Subscription{C: ch, ch: ch, doc: d, closed: make(chan struct{})}
	d.subMu.Lock()
	d.subs[s] = struct{}{}
	d.subMu.Unlock()
	return s
}

// Observers returns the number of live subscriptions.
func (d *Document) Observers() int {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	return len(d.subs)
}

func (d *Document) unsubscribe(s *Subscription) {
	d.subMu.Lock()
	delete(d.subs, s)
	d.subMu.Unlock()
}

func (d *Document) notify() {
	m := Mutation{At: time.Now()}
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for s := range d.subs {
		select {
		case s.ch <- m:
		default:
		}
	}
}
