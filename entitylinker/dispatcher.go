package entitylinker

import (
	"context"
	"log"
	"strings"
	"time"
)

// Dispatcher iterates the mentions of a document, normalizes each label,
// routes it to the resolver registered for its type tag and collects
// results in input order. Failures are isolated per mention: one bad
// mention never stops the rest of the document.
type Dispatcher struct {
	resolvers map[MentionType]*Resolver
	stopwords map[string]struct{}
	pause     time.Duration
	logger    *log.Logger

	// OnProgress, when set, is called after each input mention has been
	// handled (resolved or skipped) with the number done and the total.
	OnProgress func(done, total int)
}

// NewDispatcher constructs a dispatcher over the given resolvers. GPE
// mentions route to the LOC resolver unless a dedicated GPE resolver is
// registered. pause is the delay inserted between mentions to respect
// external rate limits.
func NewDispatcher(resolvers map[MentionType]*Resolver, stopwords []string, pause time.Duration, logger *log.Logger) *Dispatcher {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Dispatcher{
		resolvers: resolvers,
		stopwords: set,
		pause:     pause,
		logger:    logger,
	}
}

// BuildDispatcher wires a resolver per configured profile, sharing the
// embedder and tokenizer across all of them, and returns the dispatcher.
func BuildDispatcher(kb KnowledgeBaseClient, embedder Embedder, tok Tokenizer, cfg Config, logger *log.Logger) *Dispatcher {
	cfg.ApplyDefaults()
	resolvers := make(map[MentionType]*Resolver, len(cfg.Profiles))
	for typ, profile := range cfg.Profiles {
		resolvers[typ] = NewResolver(kb, embedder, tok, profile, cfg.Lang, cfg.FallbackLang, logger)
	}
	return NewDispatcher(resolvers, cfg.Stopwords, time.Duration(cfg.PauseMillis)*time.Millisecond, logger)
}

// LinkAll resolves every routable mention in order. Mentions whose
// normalized label is empty and type tags with no registered resolver are
// skipped. The context aborts the pacing delay between mentions but a
// per-mention resolution failure only nils that mention's record.
func (d *Dispatcher) LinkAll(ctx context.Context, text string, mentions []Mention, opts ResolveOptions) []LinkResult {
	results := make([]LinkResult, 0, len(mentions))
	first := true
	for i, mention := range mentions {
		label := d.NormalizeLabel(mention.Label)
		if label == "" {
			d.logf("dispatch: skipping mention with empty normalized label %q", mention.Label)
			d.progress(i+1, len(mentions))
			continue
		}
		resolver, ok := d.resolverFor(mention.Type)
		if !ok {
			d.logf("dispatch: no resolver for type %s, skipping %q", mention.Type, mention.Label)
			d.progress(i+1, len(mentions))
			continue
		}
		if !first && !d.sleep(ctx) {
			break
		}
		first = false

		normalized := mention
		normalized.Label = label
		rec, err := resolver.Resolve(ctx, text, normalized, opts)
		if err != nil {
			d.logf("dispatch: resolving %q failed: %v", label, err)
			rec = nil
		}
		results = append(results, LinkResult{Mention: mention, Record: rec})
		d.progress(i+1, len(mentions))
	}
	return results
}

func (d *Dispatcher) progress(done, total int) {
	if d.OnProgress != nil {
		d.OnProgress(done, total)
	}
}

// NormalizeLabel trims the label and strips a single leading token when it
// is a stopword (articles such as "The", "Le", "Der").
func (d *Dispatcher) NormalizeLabel(label string) string {
	tokens := strings.Fields(NormalizeText(label))
	if len(tokens) == 0 {
		return ""
	}
	if _, ok := d.stopwords[strings.ToLower(tokens[0])]; ok {
		tokens = tokens[1:]
	}
	return strings.Join(tokens, " ")
}

func (d *Dispatcher) resolverFor(typ MentionType) (*Resolver, bool) {
	if r, ok := d.resolvers[typ]; ok {
		return r, true
	}
	if typ == MentionGeopolitical {
		r, ok := d.resolvers[MentionLocation]
		return r, ok
	}
	return nil, false
}

// sleep waits the configured pacing delay, returning false when the
// context was cancelled first.
func (d *Dispatcher) sleep(ctx context.Context) bool {
	if d.pause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}
