package entitylinker

import (
	"context"
	"log"
)

// recordKindItem is the only record kind eligible as an entity candidate.
const recordKindItem = "item"

// CandidateFilter accepts or rejects knowledge-base records for one entity
// type based on the structural properties the record exposes. Filtering is
// a best-effort narrowing step: any lookup failure counts as a rejection
// rather than an error.
type CandidateFilter struct {
	kb         KnowledgeBaseClient
	properties []string
	logger     *log.Logger
}

// NewCandidateFilter constructs a filter for the given type-specific
// property set.
func NewCandidateFilter(kb KnowledgeBaseClient, properties []string, logger *log.Logger) *CandidateFilter {
	return &CandidateFilter{kb: kb, properties: properties, logger: logger}
}

// Accepts reports whether the record looks like an entity of this filter's
// type: a generic item exposing at least one expected property.
func (f *CandidateFilter) Accepts(ctx context.Context, id string) bool {
	_, ok := f.Check(ctx, id)
	return ok
}

// Check fetches the record and applies the acceptance rule, returning the
// record so callers can reuse it without a second lookup.
func (f *CandidateFilter) Check(ctx context.Context, id string) (*Record, bool) {
	rec, err := f.kb.GetRecord(ctx, id)
	if err != nil {
		f.logf("filter: lookup %s failed: %v", id, err)
		return nil, false
	}
	if rec.Kind != recordKindItem {
		return nil, false
	}
	for _, prop := range f.properties {
		if _, ok := rec.Claims[prop]; ok {
			return rec, true
		}
	}
	return nil, false
}

func (f *CandidateFilter) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}
