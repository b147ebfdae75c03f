package entitylinker

import "strings"

// ContextExtractor derives a bounded text window around a mention's
// character offset, at sentence or word granularity. Pure: no state is kept
// between calls beyond the injected tokenizer.
type ContextExtractor struct {
	tok Tokenizer
}

// NewContextExtractor constructs an extractor using the given sentence
// tokenizer.
func NewContextExtractor(tok Tokenizer) *ContextExtractor {
	return &ContextExtractor{tok: tok}
}

// SentenceContext returns the sentences within window of the sentence
// containing startOffset, joined in original order. window == 0 returns the
// anchor sentence alone.
func (e *ContextExtractor) SentenceContext(text string, startOffset, window int) string {
	sentences := e.tok.Sentences(text)
	if len(sentences) == 0 {
		return ""
	}
	return windowAround(sentences, anchorIndex(sentences, startOffset), window)
}

// WordContext is the word-granularity counterpart: whitespace-delimited
// tokens anchored by their real byte offsets, so whitespace runs between
// words never shift the anchor.
func (e *ContextExtractor) WordContext(text string, startOffset, window int) string {
	spans := splitWordSpans(text)
	if len(spans) == 0 {
		return ""
	}
	words := make([]string, len(spans))
	for i, s := range spans {
		words[i] = s.text
	}
	return windowAround(words, anchorSpan(spans, startOffset), window)
}

// windowAround selects units[anchor-window .. anchor+window], clamped to the
// valid index range, and joins them with single spaces. Clamping collapses
// out-of-range indices onto the boundary, so each unit appears at most once.
func windowAround(units []string, anchor, window int) string {
	if window <= 0 {
		return units[anchor]
	}
	lo := clampIndex(anchor-window, len(units))
	hi := clampIndex(anchor+window, len(units))
	return strings.Join(units[lo:hi+1], " ")
}

// anchorIndex finds the first unit whose cumulative character length
// exceeds startOffset. An offset beyond the total text length anchors to
// the last unit rather than running off the end.
func anchorIndex(units []string, startOffset int) int {
	count := 0
	for i, u := range units {
		count += len(u)
		if count > startOffset {
			return i
		}
	}
	return len(units) - 1
}

// anchorSpan finds the first word ending after startOffset: the word
// containing the offset, or the next word when the offset falls on
// whitespace. An offset past the end anchors to the last word.
func anchorSpan(spans []wordSpan, startOffset int) int {
	for i, s := range spans {
		if s.start+len(s.text) > startOffset {
			return i
		}
	}
	return len(spans) - 1
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
