package entitylinker

// DefaultStopwords returns the leading tokens stripped from mention labels
// before resolution: articles and honorific-style prefixes that taggers
// commonly include in the span.
func DefaultStopwords() []string {
	return []string{
		"the", "a", "an",
		"le", "la", "les",
		"der", "die", "das",
		"el", "los", "las",
		"il", "lo",
		"de", "het",
	}
}

// DefaultProfiles returns the built-in entity profiles: the structural
// filter properties a candidate record must expose per type, and a
// representative output schema.
func DefaultProfiles() map[MentionType]EntityProfile {
	return map[MentionType]EntityProfile{
		MentionPerson: {
			Type: MentionPerson,
			// sex or gender, place of birth, date of birth, occupation,
			// country of citizenship
			FilterProperties: []string{"P21", "P19", "P569", "P106", "P27"},
			Schema: PropertySchema{
				"P106": "occupation",
				"P569": "date_of_birth",
				"P19":  "place_of_birth",
				"P27":  "citizenship",
			},
		},
		MentionOrganization: {
			Type: MentionOrganization,
			// industry, has subsidiary, location of formation, founded by,
			// employees, inception
			FilterProperties: []string{"P452", "P355", "P740", "P112", "P1128", "P571"},
			Schema: PropertySchema{
				"P452": "industry",
				"P112": "founded_by",
				"P571": "inception",
				"P159": "headquarters",
			},
		},
		MentionLocation: {
			Type: MentionLocation,
			// official language, population, contains administrative
			// territorial entity, GeoNames ID
			FilterProperties: []string{"P37", "P1082", "P150", "P1566"},
			Schema: PropertySchema{
				"P1082": "population",
				"P37":   "official_language",
				"P17":   "country",
			},
		},
	}
}
