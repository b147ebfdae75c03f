package entitylinker

import (
	"context"
	"fmt"
	"log"
)

// weightFloor is the prior weight assigned to the last requested search
// rank. The decay from 1.0 to this floor runs over the originally requested
// result count, not the post-filter count, so the search engine's relative
// ranking survives filtering intact.
const weightFloor = 0.01

// CandidateRetriever turns a free-text label into a ranked candidate set:
// full-text search, snippet triage, structural filtering, and rank-derived
// prior weights.
type CandidateRetriever struct {
	kb     KnowledgeBaseClient
	filter *CandidateFilter
	lang   string
	logger *log.Logger
}

// NewCandidateRetriever constructs a retriever searching in the given
// language and narrowing results with the given filter.
func NewCandidateRetriever(kb KnowledgeBaseClient, filter *CandidateFilter, lang string, logger *log.Logger) *CandidateRetriever {
	return &CandidateRetriever{kb: kb, filter: filter, lang: lang, logger: logger}
}

// Retrieve searches the knowledge base for phrase and returns surviving
// candidates in search-rank order. Hits without a snippet cannot be scored
// semantically and are dropped before filtering. An empty set means "no
// confident candidate", not an error.
func (r *CandidateRetriever) Retrieve(ctx context.Context, phrase string, resultCount int) (CandidateSet, error) {
	if resultCount <= 0 {
		return nil, fmt.Errorf("result count must be positive, got %d", resultCount)
	}
	hits, err := r.kb.Search(ctx, phrase, resultCount, r.lang)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", phrase, err)
	}

	withSnippet := hits[:0:0]
	for _, h := range hits {
		if h.Snippet == "" {
			continue
		}
		withSnippet = append(withSnippet, h)
	}

	cands := make(CandidateSet, 0, len(withSnippet))
	for rank, h := range withSnippet {
		rec, ok := r.filter.Check(ctx, h.ID)
		if !ok {
			continue
		}
		cands = append(cands, Candidate{
			ID:      h.ID,
			Label:   localizedLabel(rec, r.lang),
			Snippet: h.Snippet,
			Weight:  priorWeight(rank, resultCount),
		})
	}
	r.logf("retrieve %q: %d hits, %d with snippet, %d after filtering", phrase, len(hits), len(withSnippet), len(cands))
	return cands, nil
}

// priorWeight interpolates linearly from 1.0 at rank 0 down to weightFloor
// at rank total-1.
func priorWeight(rank, total int) float32 {
	if total <= 1 {
		return 1.0
	}
	step := (1.0 - weightFloor) / float64(total-1)
	return float32(1.0 - step*float64(rank))
}

// localizedLabel picks the record label in lang, falling back to English,
// then to the record id.
func localizedLabel(rec *Record, lang string) string {
	if rec == nil {
		return ""
	}
	if label, ok := rec.Labels[lang]; ok && label != "" {
		return label
	}
	if label, ok := rec.Labels["en"]; ok && label != "" {
		return label
	}
	return rec.ID
}

func (r *CandidateRetriever) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
