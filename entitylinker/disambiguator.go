package entitylinker

import (
	"context"
	"errors"
	"math"
)

// MatchByContext embeds the mention's surrounding context and every
// candidate snippet, multiplies each cosine similarity by the candidate's
// prior weight, and returns the top-scoring candidate. Raw similarity alone
// is too easily fooled by generic snippets, so the search engine's rank
// confidence is folded in multiplicatively rather than used as a hard
// filter. Ties keep the first candidate in set order.
func MatchByContext(ctx context.Context, contextText string, cands CandidateSet, embedder Embedder) (Candidate, float32, error) {
	texts := make([]string, len(cands))
	for i, c := range cands {
		texts[i] = c.Snippet
	}
	return matchWeighted(ctx, contextText, texts, cands, embedder)
}

// MatchByLabel is the label-only variant used when no textual context is
// reliable: it embeds the mention label against each candidate's label.
func MatchByLabel(ctx context.Context, mentionLabel string, cands CandidateSet, embedder Embedder) (Candidate, float32, error) {
	texts := make([]string, len(cands))
	for i, c := range cands {
		texts[i] = c.Label
	}
	return matchWeighted(ctx, mentionLabel, texts, cands, embedder)
}

func matchWeighted(ctx context.Context, query string, texts []string, cands CandidateSet, embedder Embedder) (Candidate, float32, error) {
	if len(cands) == 0 {
		return Candidate{}, 0, errors.New("no candidates to match")
	}
	queryVec, err := embedder.EmbedText(ctx, query)
	if err != nil {
		return Candidate{}, 0, err
	}
	candVecs, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return Candidate{}, 0, err
	}
	best := 0
	bestScore := float32(math.Inf(-1))
	for i, vec := range candVecs {
		score := Cosine(queryVec, vec) * cands[i].Weight
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return cands[best], bestScore, nil
}

// Cosine computes cosine similarity over the shared prefix of two vectors,
// returning 0 when either is empty or zero-length in magnitude.
func Cosine(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
