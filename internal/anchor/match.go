package anchor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"stickynotes/internal/dom"
	"stickynotes/internal/domain"
)

// MatchResult is a located quote in source coordinates; EndOffset is
// exclusive.
type MatchResult struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// Range converts the match into a dom.Range ready for wrapping.
func (m *MatchResult) Range() *dom.Range {
	return dom.NewTextRange(m.StartNode, m.StartOffset, m.EndNode, m.EndOffset)
}

// Matcher relocates anchor records in flattened documents.
type Matcher struct {
	params Params
}

// NewMatcher creates a Matcher; zero fields in p take their defaults.
func NewMatcher(p Params) *Matcher {
	return &Matcher{params: p.WithDefaults()}
}

// Params returns the effective tuning.
func (m *Matcher) Params() Params {
	return m.params
}

// Match finds rec in idx using the default parameters.
func Match(rec domain.AnchorRecord, idx *FlatIndex) *MatchResult {
	return NewMatcher(DefaultParams()).Match(rec, idx)
}

// Locate flattens root and matches rec against it.
func (m *Matcher) Locate(rec domain.AnchorRecord, root *html.Node) *MatchResult {
	return m.Match(rec, Flatten(root))
}

// Match returns the best occurrence of the record's quote in idx, or nil.
// A unique occurrence is returned regardless of context; otherwise the
// highest scoring one wins and ties go to the earliest.
func (m *Matcher) Match(rec domain.AnchorRecord, idx *FlatIndex) *MatchResult {
	if idx == nil {
		return nil
	}
	quote := Normalize(rec.Quote)
	if quote == "" {
		return nil
	}

	hits := occurrences(idx.Flat, quote)
	if len(hits) == 0 {
		return nil
	}

	best := hits[0]
	if len(hits) > 1 {
		prefix := Normalize(rec.Prefix)
		suffix := Normalize(rec.Suffix)
		bestScore := -1
		for _, p := range hits {
			if s := m.score(idx.Flat, p, len(quote), prefix, suffix); s > bestScore {
				best, bestScore = p, s
			}
		}
	}

	last := best + len(quote) - 1
	if last >= len(idx.Map) {
		return nil
	}
	start, end := idx.Map[best], idx.Map[last]
	if start.Node == nil || end.Node == nil {
		return nil
	}
	return &MatchResult{
		StartNode:   start.Node,
		StartOffset: start.Offset,
		EndNode:     end.Node,
		EndOffset:   end.Offset + 1,
	}
}

func (m *Matcher) score(flat string, p, n int, prefix, suffix string) int {
	w := m.params.ContextWindow
	before := Normalize(flat[backRunes(flat, p, w):p])
	after := Normalize(flat[p+n : forwardRunes(flat, p+n, w)])

	score := 0
	if prefix != "" {
		if strings.HasSuffix(before, prefix) {
			score += m.params.ExactWeight
		} else if strings.Contains(before, lastRunes(prefix, m.params.FallbackChars)) {
			score += m.params.PartialWeight
		}
	}
	if suffix != "" {
		if strings.HasPrefix(after, suffix) {
			score += m.params.ExactWeight
		} else if strings.Contains(after, firstRunes(suffix, m.params.FallbackChars)) {
			score += m.params.PartialWeight
		}
	}
	return score
}

// Normalize collapses whitespace runs to one space and trims the ends.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// occurrences returns every start index of q in s, overlaps included.
func occurrences(s, q string) []int {
	var hits []int
	for from := 0; from <= len(s)-len(q); {
		i := strings.Index(s[from:], q)
		if i < 0 {
			break
		}
		hits = append(hits, from+i)
		_, size := utf8.DecodeRuneInString(s[from+i:])
		from += i + size
	}
	return hits
}

// backRunes returns the byte index n runes before pos, clipped at 0.
func backRunes(s string, pos, n int) int {
	for ; n > 0 && pos > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:pos])
		pos -= size
	}
	return pos
}

// forwardRunes returns the byte index n runes after pos, clipped at len(s).
func forwardRunes(s string, pos, n int) int {
	for ; n > 0 && pos < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[pos:])
		pos += size
	}
	return pos
}

func lastRunes(s string, n int) string {
	return s[backRunes(s, len(s), n):]
}

func firstRunes(s string, n int) string {
	return s[:forwardRunes(s, 0, n)]
}
