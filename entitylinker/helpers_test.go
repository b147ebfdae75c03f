package entitylinker

import (
	"context"
	"fmt"
)

// fakeKB is an in-memory KnowledgeBaseClient double.
type fakeKB struct {
	records    map[string]*Record
	searchHits []SearchHit
	searchErr  error
	exact      map[string]string
	disambig   map[string]bool

	searchCalls    int
	getRecordCalls int
}

func (f *fakeKB) Search(_ context.Context, phrase string, limit int, lang string) ([]SearchHit, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	hits := f.searchHits
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (f *fakeKB) GetRecord(_ context.Context, id string) (*Record, error) {
	f.getRecordCalls++
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return nil, ErrNotFound
}

func (f *fakeKB) GetExact(_ context.Context, title, site string) (string, error) {
	if id, ok := f.exact[title]; ok {
		return id, nil
	}
	return "", ErrNotFound
}

func (f *fakeKB) IsDisambiguation(_ context.Context, id, lang string) (bool, error) {
	return f.disambig[id], nil
}

// itemRecord builds a minimal "item" record with an English label and
// description plus the given claim properties.
func itemRecord(id, label string, props ...string) *Record {
	claims := make(map[string][]ClaimValue, len(props))
	for _, p := range props {
		claims[p] = []ClaimValue{{Literal: "x"}}
	}
	return &Record{
		ID:           id,
		Kind:         "item",
		Labels:       map[string]string{"en": label},
		Descriptions: map[string]string{"en": label + " description"},
		Claims:       claims,
	}
}

// stubEmbedder returns pre-registered vectors by exact input text.
type stubEmbedder struct {
	vecs map[string][]float32
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if vec, ok := s.vecs[text]; ok {
		return vec, nil
	}
	return nil, fmt.Errorf("no stub vector for %q", text)
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) Close() error { return nil }

func (s *stubEmbedder) ModelID() string { return "stub" }

// staticTokenizer returns a fixed sentence split regardless of input.
type staticTokenizer []string

func (s staticTokenizer) Sentences(string) []string { return s }
