package entitylinker

import "encoding/json"

// MentionType is the coarse tag an upstream tagger attaches to a mention.
type MentionType string

const (
	// MentionPerson tags mentions of people.
	MentionPerson MentionType = "PER"
	// MentionOrganization tags mentions of organizations.
	MentionOrganization MentionType = "ORG"
	// MentionLocation tags mentions of locations.
	MentionLocation MentionType = "LOC"
	// MentionGeopolitical tags geopolitical entities; routed like locations.
	MentionGeopolitical MentionType = "GPE"
)

// Mention is a located, typed span of text believed to reference a
// real-world entity. Immutable once handed to the dispatcher.
type Mention struct {
	Label       string      `json:"label"`
	StartOffset int         `json:"startOffset"`
	Type        MentionType `json:"type"`
}

// Candidate is one knowledge-base record proposed as a referent for a
// mention: its id, the search snippet, an optional label, and a rank-derived
// prior weight in (0,1].
type Candidate struct {
	ID      string
	Label   string
	Snippet string
	Weight  float32
}

// CandidateSet is an ordered list of candidates in search-rank order.
// Weights decrease monotonically with rank.
type CandidateSet []Candidate

// PropertySchema maps knowledge-base property ids to output field names.
// Fixed per resolver instance, never mutated mid-run.
type PropertySchema map[string]string

// PropertyValue holds the resolved values for one requested field. A field
// with exactly one value marshals as a scalar; zero or several values
// marshal as an ordered list.
type PropertyValue struct {
	Values []string
}

// Scalar reports whether the value collapses to a single scalar.
func (v PropertyValue) Scalar() bool {
	return len(v.Values) == 1
}

// MarshalJSON emits a bare string for scalar values and a list otherwise.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	if v.Scalar() {
		return json.Marshal(v.Values[0])
	}
	if v.Values == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(v.Values)
}

// UnmarshalJSON accepts either a scalar string or a list of strings.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		v.Values = []string{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	v.Values = many
	return nil
}

// ResolvedRecord is the projected view of a knowledge-base record. A
// requested property with no extracted values is kept as an empty list so
// callers can tell "absent value" from "field not requested".
type ResolvedRecord struct {
	ID          string                   `json:"id"`
	Label       string                   `json:"label"`
	Description string                   `json:"description"`
	Properties  map[string]PropertyValue `json:"properties"`
}

// LinkResult pairs a mention with its resolved record. Record is nil when
// the mention could not be resolved.
type LinkResult struct {
	Mention Mention         `json:"mention"`
	Record  *ResolvedRecord `json:"record,omitempty"`
}

// EntityProfile parameterizes a resolver for one entity type: the
// structural properties a candidate must expose and the output schema.
type EntityProfile struct {
	Type             MentionType    `json:"type"`
	FilterProperties []string       `json:"filterProperties"`
	Schema           PropertySchema `json:"schema"`
}

// EmbedderConfig wraps the configuration for the ORT embedder and cache.
type EmbedderConfig struct {
	OrtDLL        string `json:"ortDll"`
	ModelPath     string `json:"modelPath"`
	TokenizerPath string `json:"tokenizerPath"`
	MaxSeqLen     int    `json:"maxSeqLen"`
	CacheDir      string `json:"cacheDir"`
	ModelID       string `json:"modelId"`
}

// KnowledgeBaseConfig holds connection settings for the knowledge-base
// client built by the CLI.
type KnowledgeBaseConfig struct {
	UserAgent       string `json:"userAgent"`
	RateLimitMillis int    `json:"rateLimitMillis"`
	CacheTTLMinutes int    `json:"cacheTtlMinutes"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Lang          string                        `json:"lang"`
	FallbackLang  string                        `json:"fallbackLang"`
	ResultCount   int                           `json:"resultCount"`
	ContextWindow int                           `json:"contextWindow"`
	PauseMillis   int                           `json:"pauseMillis"`
	Stopwords     []string                      `json:"stopwords,omitempty"`
	Embedder      EmbedderConfig                `json:"embedder"`
	KnowledgeBase KnowledgeBaseConfig           `json:"knowledgeBase"`
	Profiles      map[MentionType]EntityProfile `json:"profiles,omitempty"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.FallbackLang == "" {
		c.FallbackLang = "en"
	}
	if c.ResultCount <= 0 {
		c.ResultCount = 10
	}
	if c.ContextWindow < 0 {
		c.ContextWindow = 0
	}
	if c.PauseMillis == 0 {
		c.PauseMillis = 1500
	}
	if len(c.Stopwords) == 0 {
		c.Stopwords = DefaultStopwords()
	}
	if c.Embedder.MaxSeqLen == 0 {
		c.Embedder.MaxSeqLen = 512
	}
	if c.KnowledgeBase.UserAgent == "" {
		c.KnowledgeBase.UserAgent = DefaultUserAgent
	}
	if c.KnowledgeBase.RateLimitMillis <= 0 {
		c.KnowledgeBase.RateLimitMillis = 1000
	}
	if c.KnowledgeBase.CacheTTLMinutes <= 0 {
		c.KnowledgeBase.CacheTTLMinutes = 60
	}
	if len(c.Profiles) == 0 {
		c.Profiles = DefaultProfiles()
	}
}

// DefaultUserAgent identifies the linker in knowledge-base requests.
const DefaultUserAgent = "entitylinker/1.0"
