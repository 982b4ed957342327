package anchor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickynotes/internal/dom"
)

func TestCapture_Rejects(t *testing.T) {
	root := parse(t, `<p>plain text here</p><div class="sticky-note"><div>note body text</div></div><p>a   b</p>`)

	_, err := Capture(nil)
	assert.ErrorIs(t, err, ErrNoSelection)

	r := selectText(t, root, "plain", 1)
	collapsed := dom.NewTextRange(r.StartContainer, 1, r.StartContainer, 1)
	_, err = Capture(collapsed)
	assert.ErrorIs(t, err, ErrCollapsedSelection)

	_, err = Capture(selectText(t, root, "note body", 1))
	assert.ErrorIs(t, err, ErrSelectionInUI)

	_, err = Capture(selectText(t, root, "   ", 1))
	assert.ErrorIs(t, err, ErrBlankQuote)

	broken := dom.NewTextRange(r.StartContainer, 0, r.StartContainer, 500)
	_, err = Capture(broken)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestCapture_QuoteAndContext(t *testing.T) {
	root := parse(t, "<p>Here is the annual report for Q3 of this year.</p>")

	rec, err := Capture(selectText(t, root, " annual report ", 1))
	require.NoError(t, err)
	assert.Equal(t, "annual report", rec.Quote)
	assert.Equal(t, "Here is the ", rec.Prefix)
	assert.Equal(t, " for Q3 of this year.", rec.Suffix)
}

func TestCapture_ContextIsBounded(t *testing.T) {
	left := strings.Repeat("é", 50)
	right := strings.Repeat("ü", 50)
	root := parse(t, "<p>"+left+" target "+right+"</p>")

	rec, err := Capture(selectText(t, root, "target", 1))
	require.NoError(t, err)
	assert.Equal(t, 30, utf8.RuneCountInString(rec.Prefix))
	assert.Equal(t, 30, utf8.RuneCountInString(rec.Suffix))
	assert.True(t, strings.HasSuffix(rec.Prefix, "é "))
	assert.True(t, strings.HasPrefix(rec.Suffix, " ü"))

	rec, err = NewCapturer(Params{CaptureContext: 5}).Capture(selectText(t, root, "target", 1))
	require.NoError(t, err)
	assert.Equal(t, 5, utf8.RuneCountInString(rec.Prefix))
	assert.Equal(t, 5, utf8.RuneCountInString(rec.Suffix))
}

func TestCapture_UsesNearestElement(t *testing.T) {
	root := parse(t, "<div>outer words <p>inner start <b>bold quote</b> inner end</p></div>")

	rec, err := Capture(selectText(t, root, "bold quote", 1))
	require.NoError(t, err)
	// The nearest element is <b>, which holds nothing but the quote.
	assert.Equal(t, "", rec.Prefix)
	assert.Equal(t, "", rec.Suffix)

	rec, err = Capture(selectText(t, root, "start bold", 1))
	require.NoError(t, err)
	assert.Equal(t, "inner ", rec.Prefix)
	assert.Equal(t, " quote inner end", rec.Suffix)
}

func TestCapture_FallsBackToEmptyContext(t *testing.T) {
	// The textarea text is part of the selection but not of the rendered
	// text of the enclosing element, so the quote cannot be located there.
	root := parse(t, "<div><p>alpha</p><textarea>beta</textarea><p>gamma</p></div>")

	rec, err := Capture(selectText(t, root, "alphabetagamma", 1))
	require.NoError(t, err)
	assert.Equal(t, "alphabetagamma", rec.Quote)
	assert.Empty(t, rec.Prefix)
	assert.Empty(t, rec.Suffix)
	assert.True(t, rec.Valid())
}
