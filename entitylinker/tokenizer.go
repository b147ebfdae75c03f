package entitylinker

import (
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"
)

// Tokenizer splits text into ordered sentence units. Implementations must
// be deterministic: the same input always yields the same split.
type Tokenizer interface {
	Sentences(text string) []string
}

// ProseTokenizer segments sentences with the prose NLP library.
type ProseTokenizer struct{}

// NewProseTokenizer constructs a sentence tokenizer.
func NewProseTokenizer() *ProseTokenizer {
	return &ProseTokenizer{}
}

// Sentences splits text into sentences. When segmentation fails the whole
// text is returned as a single unit so context extraction still has an
// anchor to work with.
func (t *ProseTokenizer) Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return []string{text}
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if s.Text == "" {
			continue
		}
		out = append(out, s.Text)
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// wordSpan is a whitespace-delimited token together with its byte offset in
// the source text. Carrying the real offset keeps anchoring aligned with
// mention offsets even across whitespace runs.
type wordSpan struct {
	text  string
	start int
}

// splitWordSpans breaks text into words with their byte offsets.
func splitWordSpans(text string) []wordSpan {
	var spans []wordSpan
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, wordSpan{text: text[start:i], start: start})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, wordSpan{text: text[start:], start: start})
	}
	return spans
}
