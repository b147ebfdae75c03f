package wikidata

import (
	"encoding/json"
	"fmt"

	"yashubustudio/entitylinker/entitylinker"
)

// searchResponse mirrors the Action API list=search reply
// (formatversion=2).
type searchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// entitiesResponse is the envelope shared by wbgetentities and the
// EntityData endpoint: a map from entity id to its data. Missing titles
// come back under the synthetic id "-1" with a "missing" marker.
type entitiesResponse struct {
	Entities map[string]entityData `json:"entities"`
}

type entityData struct {
	ID           string                    `json:"id"`
	Type         string                    `json:"type"`
	Missing      *string                   `json:"missing,omitempty"`
	Labels       map[string]localizedValue `json:"labels"`
	Descriptions map[string]localizedValue `json:"descriptions"`
	Claims       map[string][]claim        `json:"claims"`
}

type localizedValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type claim struct {
	MainSnak snak `json:"mainsnak"`
}

type snak struct {
	SnakType  string     `json:"snaktype"`
	DataValue *dataValue `json:"datavalue,omitempty"`
}

type dataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// toRecord flattens the wire representation into the structural record the
// core works with. Claim values the converter does not understand are
// dropped; snaks without a value ("novalue"/"somevalue") are skipped.
func (e entityData) toRecord(id string) *entitylinker.Record {
	rec := &entitylinker.Record{
		ID:           id,
		Kind:         e.Type,
		Labels:       make(map[string]string, len(e.Labels)),
		Descriptions: make(map[string]string, len(e.Descriptions)),
		Claims:       make(map[string][]entitylinker.ClaimValue, len(e.Claims)),
	}
	for lang, lv := range e.Labels {
		rec.Labels[lang] = lv.Value
	}
	for lang, lv := range e.Descriptions {
		rec.Descriptions[lang] = lv.Value
	}
	for prop, claims := range e.Claims {
		values := make([]entitylinker.ClaimValue, 0, len(claims))
		for _, c := range claims {
			if c.MainSnak.SnakType != "value" || c.MainSnak.DataValue == nil {
				continue
			}
			if cv, ok := convertDataValue(*c.MainSnak.DataValue); ok {
				values = append(values, cv)
			}
		}
		rec.Claims[prop] = values
	}
	return rec
}

// convertDataValue maps one Wikibase datavalue onto a ClaimValue: entity
// references keep their id, everything else becomes a literal string.
func convertDataValue(dv dataValue) (entitylinker.ClaimValue, bool) {
	switch dv.Type {
	case "wikibase-entityid":
		var v struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.ID == "" {
			return entitylinker.ClaimValue{}, false
		}
		return entitylinker.ClaimValue{EntityID: v.ID}, true
	case "string":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return entitylinker.ClaimValue{}, false
		}
		return entitylinker.ClaimValue{Literal: s}, true
	case "time":
		var v struct {
			Time string `json:"time"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.Time == "" {
			return entitylinker.ClaimValue{}, false
		}
		return entitylinker.ClaimValue{Literal: v.Time}, true
	case "quantity":
		var v struct {
			Amount string `json:"amount"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.Amount == "" {
			return entitylinker.ClaimValue{}, false
		}
		return entitylinker.ClaimValue{Literal: v.Amount}, true
	case "monolingualtext":
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.Text == "" {
			return entitylinker.ClaimValue{}, false
		}
		return entitylinker.ClaimValue{Literal: v.Text}, true
	case "globecoordinate":
		var v struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return entitylinker.ClaimValue{}, false
		}
		return entitylinker.ClaimValue{Literal: fmt.Sprintf("%g,%g", v.Latitude, v.Longitude)}, true
	default:
		return entitylinker.ClaimValue{}, false
	}
}
