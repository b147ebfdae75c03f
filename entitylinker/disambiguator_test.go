package entitylinker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchByContextWeightsRankConfidence(t *testing.T) {
	// The river snippet has the higher raw similarity to the context, but
	// the company sits at a much better search rank; the multiplicative
	// prior must let the company win.
	embedder := &stubEmbedder{vecs: map[string][]float32{
		"shares of the retailer fell": {1, 0},
		"american retail company":     {0.8, 0.6},
		"river in south america":      {0.9, 0.436},
	}}
	cands := CandidateSet{
		{ID: "Q3884", Label: "Amazon (company)", Snippet: "american retail company", Weight: 1.0},
		{ID: "Q3783", Label: "Amazon (river)", Snippet: "river in south america", Weight: 0.3},
	}

	winner, score, err := MatchByContext(context.Background(), "shares of the retailer fell", cands, embedder)
	require.NoError(t, err)
	assert.Equal(t, "Q3884", winner.ID)
	assert.InDelta(t, 0.8, score, 0.01)
}

func TestMatchByContextOrderInvariant(t *testing.T) {
	embedder := &stubEmbedder{vecs: map[string][]float32{
		"query": {1, 0},
		"near":  {0.9, 0.1},
		"far":   {0.1, 0.9},
	}}
	forward := CandidateSet{
		{ID: "A", Snippet: "near", Weight: 1.0},
		{ID: "B", Snippet: "far", Weight: 0.9},
	}
	backward := CandidateSet{
		{ID: "B", Snippet: "far", Weight: 0.9},
		{ID: "A", Snippet: "near", Weight: 1.0},
	}

	w1, _, err := MatchByContext(context.Background(), "query", forward, embedder)
	require.NoError(t, err)
	w2, _, err := MatchByContext(context.Background(), "query", backward, embedder)
	require.NoError(t, err)
	assert.Equal(t, w1.ID, w2.ID)
	assert.Equal(t, "A", w1.ID)
}

func TestMatchByContextTieBreaksFirstSeen(t *testing.T) {
	embedder := &stubEmbedder{vecs: map[string][]float32{
		"query": {1, 0},
		"same":  {1, 0},
	}}
	cands := CandidateSet{
		{ID: "first", Snippet: "same", Weight: 0.5},
		{ID: "second", Snippet: "same", Weight: 0.5},
	}

	winner, _, err := MatchByContext(context.Background(), "query", cands, embedder)
	require.NoError(t, err)
	assert.Equal(t, "first", winner.ID)
}

func TestMatchByLabelUsesLabels(t *testing.T) {
	embedder := &stubEmbedder{vecs: map[string][]float32{
		"Paris":        {1, 0},
		"Paris France": {0.95, 0.3},
		"Paris Texas":  {0.4, 0.9},
	}}
	cands := CandidateSet{
		{ID: "Q90", Label: "Paris France", Snippet: "ignored", Weight: 1.0},
		{ID: "Q830149", Label: "Paris Texas", Snippet: "ignored", Weight: 0.9},
	}

	winner, _, err := MatchByLabel(context.Background(), "Paris", cands, embedder)
	require.NoError(t, err)
	assert.Equal(t, "Q90", winner.ID)
}

func TestMatchEmptyCandidates(t *testing.T) {
	_, _, err := MatchByContext(context.Background(), "query", nil, &stubEmbedder{})
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, Cosine(nil, []float32{1}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
}
