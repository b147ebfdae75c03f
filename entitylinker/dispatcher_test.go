package entitylinker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(kb KnowledgeBaseClient, embedder Embedder) *Dispatcher {
	resolvers := map[MentionType]*Resolver{
		MentionLocation: NewResolver(kb, embedder, NewProseTokenizer(), locationProfile(), "en", "en", nil),
	}
	return NewDispatcher(resolvers, DefaultStopwords(), 0, nil)
}

func TestNormalizeLabelStripsLeadingStopword(t *testing.T) {
	d := NewDispatcher(nil, DefaultStopwords(), 0, nil)

	assert.Equal(t, "Beatles", d.NormalizeLabel("The Beatles"))
	assert.Equal(t, "Monde", d.NormalizeLabel("Le Monde"))
	assert.Equal(t, "Spiegel", d.NormalizeLabel("Der Spiegel"))
	// Only a single leading token is stripped.
	assert.Equal(t, "la Défense", d.NormalizeLabel("La la Défense"))
	// Non-stopword labels pass through.
	assert.Equal(t, "Paris", d.NormalizeLabel("Paris"))
	// A stopword-only label normalizes to empty.
	assert.Equal(t, "", d.NormalizeLabel("The"))
	assert.Equal(t, "", d.NormalizeLabel("   "))
}

func TestLinkAllRoutesAndCollectsInOrder(t *testing.T) {
	kb := &fakeKB{
		exact: map[string]string{"Paris": "Q90", "Texas": "Q1439"},
		records: map[string]*Record{
			"Q90":   itemRecord("Q90", "Paris", "P1082"),
			"Q1439": itemRecord("Q1439", "Texas", "P1082"),
		},
	}
	d := newTestDispatcher(kb, &stubEmbedder{})

	mentions := []Mention{
		{Label: "Paris", StartOffset: 0, Type: MentionLocation},
		{Label: "Texas", StartOffset: 10, Type: MentionGeopolitical}, // GPE routes to LOC
	}
	results := d.LinkAll(context.Background(), "Paris and Texas.", mentions, ResolveOptions{ResultCount: 3})

	require.Len(t, results, 2)
	assert.Equal(t, "Paris", results[0].Mention.Label)
	require.NotNil(t, results[0].Record)
	assert.Equal(t, "Q90", results[0].Record.ID)
	assert.Equal(t, "Texas", results[1].Mention.Label)
	require.NotNil(t, results[1].Record)
	assert.Equal(t, "Q1439", results[1].Record.ID)
}

func TestLinkAllSkipsUnroutableMentions(t *testing.T) {
	kb := &fakeKB{
		exact:   map[string]string{"Paris": "Q90"},
		records: map[string]*Record{"Q90": itemRecord("Q90", "Paris", "P1082")},
	}
	d := newTestDispatcher(kb, &stubEmbedder{})

	mentions := []Mention{
		{Label: "The", Type: MentionLocation},      // empty after normalization
		{Label: "Alice", Type: MentionPerson},      // no PER resolver registered
		{Label: "Paris", Type: MentionLocation},
	}
	results := d.LinkAll(context.Background(), "Paris.", mentions, ResolveOptions{ResultCount: 3})

	require.Len(t, results, 1)
	assert.Equal(t, "Paris", results[0].Mention.Label)
}

func TestLinkAllIsolatesFailures(t *testing.T) {
	// "Broken" resolves to a record that cannot be projected (no label in
	// any requested language); the next mention must still resolve.
	kb := &fakeKB{
		exact: map[string]string{"Broken": "Q1", "Paris": "Q90"},
		records: map[string]*Record{
			"Q1": {
				ID:     "Q1",
				Kind:   "item",
				Labels: map[string]string{},
				Claims: map[string][]ClaimValue{"P1082": {{Literal: "5"}}},
			},
			"Q90": itemRecord("Q90", "Paris", "P1082"),
		},
	}
	d := newTestDispatcher(kb, &stubEmbedder{})

	mentions := []Mention{
		{Label: "Broken", Type: MentionLocation},
		{Label: "Paris", Type: MentionLocation},
	}
	results := d.LinkAll(context.Background(), "Broken and Paris.", mentions, ResolveOptions{ResultCount: 3})

	require.Len(t, results, 2)
	assert.Nil(t, results[0].Record)
	require.NotNil(t, results[1].Record)
	assert.Equal(t, "Q90", results[1].Record.ID)
}

func TestLinkAllReportsProgress(t *testing.T) {
	kb := &fakeKB{
		exact:   map[string]string{"Paris": "Q90"},
		records: map[string]*Record{"Q90": itemRecord("Q90", "Paris", "P1082")},
	}
	d := newTestDispatcher(kb, &stubEmbedder{})

	var ticks []int
	d.OnProgress = func(done, total int) {
		assert.Equal(t, 2, total)
		ticks = append(ticks, done)
	}
	mentions := []Mention{
		{Label: "Paris", Type: MentionLocation},
		{Label: "Alice", Type: MentionPerson}, // skipped, still counted
	}
	d.LinkAll(context.Background(), "Paris.", mentions, ResolveOptions{ResultCount: 3})

	assert.Equal(t, []int{1, 2}, ticks)
}

func TestBuildDispatcherRegistersConfiguredProfiles(t *testing.T) {
	kb := &fakeKB{
		exact:   map[string]string{"Curie": "Q7186"},
		records: map[string]*Record{"Q7186": itemRecord("Q7186", "Marie Curie", "P106")},
	}
	var cfg Config
	cfg.ApplyDefaults()
	cfg.PauseMillis = -1 // no pacing in tests

	d := BuildDispatcher(kb, &stubEmbedder{}, NewProseTokenizer(), cfg, nil)
	results := d.LinkAll(context.Background(), "Curie worked in Paris.",
		[]Mention{{Label: "Curie", Type: MentionPerson}},
		ResolveOptions{ResultCount: 3})

	require.Len(t, results, 1)
	require.NotNil(t, results[0].Record)
	assert.Equal(t, "Q7186", results[0].Record.ID)
}
