package entitylinker

import (
	"context"
	"errors"
)

// ErrNotFound is returned by knowledge-base lookups when no record exists
// for the given id or title.
var ErrNotFound = errors.New("record not found")

// SearchHit is a single full-text search result: a record id plus the
// snippet the search engine extracted for it. The snippet may be empty when
// only the title matched.
type SearchHit struct {
	ID      string
	Snippet string
}

// ClaimValue is one value of a knowledge-base claim. Exactly one of the two
// fields is set: EntityID when the value references another record, Literal
// for strings, quantities, dates and other inline values.
type ClaimValue struct {
	EntityID string
	Literal  string
}

// Record is the structural view of a knowledge-base entry used by the
// filter and the projector.
type Record struct {
	ID           string
	Kind         string
	Labels       map[string]string
	Descriptions map[string]string
	Claims       map[string][]ClaimValue
}

// KnowledgeBaseClient is the capability the core uses to talk to the
// external knowledge base. Implementations are expected to be synchronous;
// callers needing bounded latency should enforce timeouts underneath this
// interface.
type KnowledgeBaseClient interface {
	// Search runs a relevance-ranked full-text search over the primary
	// content namespace and returns up to limit hits.
	Search(ctx context.Context, phrase string, limit int, lang string) ([]SearchHit, error)

	// GetRecord fetches the structural data for a record id.
	// Returns ErrNotFound when the id does not exist.
	GetRecord(ctx context.Context, id string) (*Record, error)

	// GetExact resolves an exact title on the given site to a record id.
	// Returns ErrNotFound when no title matches.
	GetExact(ctx context.Context, title, site string) (string, error)

	// IsDisambiguation reports whether the record is a disambiguation-page
	// placeholder rather than a real entity.
	IsDisambiguation(ctx context.Context, id, lang string) (bool, error)
}
