package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestDocument_ObserveAndCancel(t *testing.T) {
	doc, err := ParseString("<p>hi</p>")
	require.NoError(t, err)

	sub := doc.Observe(4)
	assert.Equal(t, 1, doc.Observers())

	doc.Mutate(func(root *html.Node) {})
	select {
	case <-sub.C:
	default:
		t.Fatal("expected a mutation notification")
	}

	// Update does not notify.
	doc.Update(func(root *html.Node) {})
	select {
	case <-sub.C:
		t.Fatal("Update must not notify observers")
	default:
	}

	sub.Cancel()
	sub.Cancel()
	assert.Equal(t, 0, doc.Observers())
	<-sub.Done()

	doc.Mutate(func(root *html.Node) {})
	select {
	case <-sub.C:
		t.Fatal("cancelled subscription received a notification")
	default:
	}
}

func TestDocument_ObserveCoalescesWhenFull(t *testing.T) {
	doc := NewDocument(nil)
	sub := doc.Observe(2)
	defer sub.Cancel()

	for i := 0; i < 5; i++ {
		doc.Mutate(func(root *html.Node) {})
	}
	assert.Len(t, sub.C, 2)
}

func TestDocument_ReplaceNotifiesAndRenders(t *testing.T) {
	doc, err := ParseString("<p>old</p>")
	require.NoError(t, err)
	sub := doc.Observe(0)
	defer sub.Cancel()

	require.NoError(t, doc.Replace(strings.NewReader("<p>new content</p>")))
	assert.Len(t, sub.C, 1)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "<p>new content</p>")
	assert.NotContains(t, out, "old")
}

func TestSelectText_Occurrences(t *testing.T) {
	root, _ := parseBody(t, "<p>beta one</p><p>beta two</p>")

	first, err := SelectText(root, "beta", 1)
	require.NoError(t, err)
	second, err := SelectText(root, "beta", 2)
	require.NoError(t, err)
	assert.NotSame(t, first.StartContainer, second.StartContainer)
	assert.Equal(t, "beta", second.Text())

	_, err = SelectText(root, "beta", 3)
	assert.ErrorIs(t, err, ErrTextNotFound)
	_, err = SelectText(root, "", 1)
	assert.ErrorIs(t, err, ErrTextNotFound)
}
