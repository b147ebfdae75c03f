package entitylinker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLocalizedWithFallback(t *testing.T) {
	kb := &fakeKB{records: map[string]*Record{
		"Q90": {
			ID:           "Q90",
			Kind:         "item",
			Labels:       map[string]string{"en": "Paris", "fr": "Paris"},
			Descriptions: map[string]string{"en": "capital of France"},
			Claims:       map[string][]ClaimValue{},
		},
	}}
	projector := NewRecordProjector(kb, "en", nil)

	// French label exists, French description falls back to English.
	rec, err := projector.Project(context.Background(), "Q90", PropertySchema{}, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Paris", rec.Label)
	assert.Equal(t, "capital of France", rec.Description)
}

func TestProjectMissingLabelIsFatal(t *testing.T) {
	kb := &fakeKB{records: map[string]*Record{
		"Q1": {
			ID:           "Q1",
			Kind:         "item",
			Labels:       map[string]string{"ja": "何か"},
			Descriptions: map[string]string{"en": "something"},
		},
	}}
	projector := NewRecordProjector(kb, "en", nil)

	_, err := projector.Project(context.Background(), "Q1", PropertySchema{}, "de")
	assert.Error(t, err)
}

func TestProjectScalarAndListCollapse(t *testing.T) {
	kb := &fakeKB{records: map[string]*Record{
		"Q1": {
			ID:           "Q1",
			Kind:         "item",
			Labels:       map[string]string{"en": "Acme"},
			Descriptions: map[string]string{"en": "company"},
			Claims: map[string][]ClaimValue{
				"P571": {{Literal: "+1990-01-01T00:00:00Z"}},
				"P452": {{Literal: "retail"}, {Literal: "logistics"}},
			},
		},
	}}
	projector := NewRecordProjector(kb, "en", nil)
	schema := PropertySchema{
		"P571": "inception",
		"P452": "industry",
		"P112": "founded_by", // not present on the record
	}

	rec, err := projector.Project(context.Background(), "Q1", schema, "en")
	require.NoError(t, err)

	inception := rec.Properties["inception"]
	assert.True(t, inception.Scalar())
	assert.Equal(t, []string{"+1990-01-01T00:00:00Z"}, inception.Values)

	industry := rec.Properties["industry"]
	assert.False(t, industry.Scalar())
	assert.Equal(t, []string{"retail", "logistics"}, industry.Values)

	// Requested but absent: key present with zero values, never omitted.
	founded, ok := rec.Properties["founded_by"]
	require.True(t, ok)
	assert.Empty(t, founded.Values)
}

func TestProjectResolvesEntityReferences(t *testing.T) {
	kb := &fakeKB{records: map[string]*Record{
		"Q1": {
			ID:           "Q1",
			Kind:         "item",
			Labels:       map[string]string{"en": "Acme"},
			Descriptions: map[string]string{"en": "company"},
			Claims: map[string][]ClaimValue{
				"P112": {
					{EntityID: "Q2"},
					{EntityID: "Q404"}, // unresolvable, dropped
					{EntityID: "Q3"},
				},
			},
		},
		"Q2": itemRecord("Q2", "Jane Founder"),
		"Q3": itemRecord("Q3", "John Founder"),
	}}
	projector := NewRecordProjector(kb, "en", nil)

	rec, err := projector.Project(context.Background(), "Q1", PropertySchema{"P112": "founded_by"}, "en")
	require.NoError(t, err)

	founded := rec.Properties["founded_by"]
	assert.Equal(t, []string{"Jane Founder", "John Founder"}, founded.Values)
}

func TestProjectUnknownRecord(t *testing.T) {
	projector := NewRecordProjector(&fakeKB{}, "en", nil)
	_, err := projector.Project(context.Background(), "Q404", PropertySchema{}, "en")
	assert.ErrorIs(t, err, ErrNotFound)
}
