package entitylinker

import (
	"context"
	"fmt"
	"log"
)

// RecordProjector extracts a caller-specified subset of a record's
// attributes: localized label and description plus the schema's properties,
// resolving entity-reference values one level deep to their labels.
type RecordProjector struct {
	kb           KnowledgeBaseClient
	fallbackLang string
	logger       *log.Logger
}

// NewRecordProjector constructs a projector that falls back to
// fallbackLang when a label or description is missing in the requested
// language.
func NewRecordProjector(kb KnowledgeBaseClient, fallbackLang string, logger *log.Logger) *RecordProjector {
	return &RecordProjector{kb: kb, fallbackLang: fallbackLang, logger: logger}
}

// Project builds a ResolvedRecord for id. A record with no label or no
// description in either the requested or the fallback language is unusable
// and yields an error; a failed resolution of a single referenced property
// value only drops that value.
func (p *RecordProjector) Project(ctx context.Context, id string, schema PropertySchema, lang string) (*ResolvedRecord, error) {
	rec, err := p.kb.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch record %s: %w", id, err)
	}

	label, ok := pickLocalized(rec.Labels, lang, p.fallbackLang)
	if !ok {
		return nil, fmt.Errorf("record %s has no label in %q or %q", id, lang, p.fallbackLang)
	}
	description, ok := pickLocalized(rec.Descriptions, lang, p.fallbackLang)
	if !ok {
		return nil, fmt.Errorf("record %s has no description in %q or %q", id, lang, p.fallbackLang)
	}

	out := &ResolvedRecord{
		ID:          id,
		Label:       label,
		Description: description,
		Properties:  make(map[string]PropertyValue, len(schema)),
	}
	for propID, fieldName := range schema {
		var values []string
		for _, cv := range rec.Claims[propID] {
			if resolved, kept := p.resolveClaimValue(ctx, cv, lang); kept {
				values = append(values, resolved)
			}
		}
		// A requested property with zero values stays present as an empty
		// list so callers can tell it apart from "field not requested".
		out.Properties[fieldName] = PropertyValue{Values: values}
	}
	return out, nil
}

// resolveClaimValue turns one claim value into a display string. Literals
// pass through verbatim; entity references are resolved to their localized
// label. The second return reports whether the value was kept.
func (p *RecordProjector) resolveClaimValue(ctx context.Context, cv ClaimValue, lang string) (string, bool) {
	if cv.EntityID == "" {
		return cv.Literal, true
	}
	ref, err := p.kb.GetRecord(ctx, cv.EntityID)
	if err != nil {
		p.logf("project: resolve %s failed: %v", cv.EntityID, err)
		return "", false
	}
	label, ok := pickLocalized(ref.Labels, lang, p.fallbackLang)
	if !ok {
		p.logf("project: %s has no label in %q or %q", cv.EntityID, lang, p.fallbackLang)
		return "", false
	}
	return label, true
}

// pickLocalized prefers the value in lang and falls back to fallbackLang.
func pickLocalized(values map[string]string, lang, fallbackLang string) (string, bool) {
	if v, ok := values[lang]; ok && v != "" {
		return v, true
	}
	if v, ok := values[fallbackLang]; ok && v != "" {
		return v, true
	}
	return "", false
}

func (p *RecordProjector) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
