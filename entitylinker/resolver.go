package entitylinker

import (
	"context"
	"log"
)

// ResolveOptions are the per-run knobs of a resolution: how many search
// results to request and how many words of context to take on each side of
// the mention.
type ResolveOptions struct {
	ResultCount   int
	ContextWindow int
}

// Resolver links mentions of one entity type to knowledge-base records. It
// composes an exact-title shortcut with the retrieve → score → project
// pipeline, parameterized by the type's entity profile.
type Resolver struct {
	kb        KnowledgeBaseClient
	embedder  Embedder
	profile   EntityProfile
	filter    *CandidateFilter
	retriever *CandidateRetriever
	projector *RecordProjector
	extractor *ContextExtractor
	lang      string
	logger    *log.Logger
}

// NewResolver wires a resolver for the given profile. The embedder is held
// by reference and shared across resolvers; it is never reconstructed here.
func NewResolver(kb KnowledgeBaseClient, embedder Embedder, tok Tokenizer, profile EntityProfile, lang, fallbackLang string, logger *log.Logger) *Resolver {
	filter := NewCandidateFilter(kb, profile.FilterProperties, logger)
	return &Resolver{
		kb:        kb,
		embedder:  embedder,
		profile:   profile,
		filter:    filter,
		retriever: NewCandidateRetriever(kb, filter, lang, logger),
		projector: NewRecordProjector(kb, fallbackLang, logger),
		extractor: NewContextExtractor(tok),
		lang:      lang,
		logger:    logger,
	}
}

// Profile returns the entity profile this resolver was built with.
func (r *Resolver) Profile() EntityProfile {
	return r.profile
}

// Resolve links one mention against the knowledge base. A nil record with a
// nil error means the mention is unresolvable (no surviving candidate),
// which is a normal outcome distinct from a transport failure.
func (r *Resolver) Resolve(ctx context.Context, text string, mention Mention, opts ResolveOptions) (*ResolvedRecord, error) {
	if id, ok := r.exactMatch(ctx, mention.Label); ok {
		r.logf("resolve %q: exact match %s", mention.Label, id)
		return r.projector.Project(ctx, id, r.profile.Schema, r.lang)
	}

	cands, err := r.retriever.Retrieve(ctx, mention.Label, opts.ResultCount)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		r.logf("resolve %q: no candidates survived", mention.Label)
		return nil, nil
	}

	contextText := r.extractor.WordContext(text, mention.StartOffset, opts.ContextWindow)
	winner, score, err := MatchByContext(ctx, contextText, cands, r.embedder)
	if err != nil {
		return nil, err
	}
	r.logf("resolve %q: matched %s (score %.4f)", mention.Label, winner.ID, score)

	return r.projector.Project(ctx, winner.ID, r.profile.Schema, r.lang)
}

// exactMatch resolves the label against the exact-title index for the
// active language. The hit only counts when it is not a disambiguation
// placeholder and passes this type's structural filter. Lookup failures
// simply miss; the search pipeline is the fallback.
func (r *Resolver) exactMatch(ctx context.Context, label string) (string, bool) {
	// Title indexes follow the <lang>wiki site naming of the knowledge base.
	id, err := r.kb.GetExact(ctx, label, r.lang+"wiki")
	if err != nil {
		return "", false
	}
	if disambig, err := r.kb.IsDisambiguation(ctx, id, r.lang); err != nil || disambig {
		return "", false
	}
	if !r.filter.Accepts(ctx, id) {
		return "", false
	}
	return id, true
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
