// Package wikidata implements the entitylinker knowledge-base client
// against the Wikidata Action API and EntityData endpoint, with request
// rate limiting and a TTL record cache.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"yashubustudio/entitylinker/entitylinker"
)

const (
	// DefaultAPIEndpoint serves search and exact-title lookups.
	DefaultAPIEndpoint = "https://www.wikidata.org/w/api.php"
	// DefaultEntityDataEndpoint serves full structural records as
	// <endpoint>/<id>.json.
	DefaultEntityDataEndpoint = "https://www.wikidata.org/wiki/Special:EntityData"
	// DefaultRequestInterval is the polite minimum gap between requests.
	DefaultRequestInterval = 1 * time.Second

	// disambiguationDescription marks placeholder pages that list the
	// entities sharing a title.
	disambiguationDescription = "Wikimedia disambiguation page"
)

// Config holds connection settings for a Client.
type Config struct {
	APIEndpoint        string
	EntityDataEndpoint string
	UserAgent          string
	RateLimit          time.Duration
	CacheTTL           time.Duration
	// HTTPClient overrides the transport; nil uses http.DefaultClient
	// wrapped with rate limiting.
	HTTPClient HTTPClient
}

// Client talks to Wikidata. It satisfies entitylinker.KnowledgeBaseClient.
type Client struct {
	httpClient HTTPClient
	cache      *RecordCache
	api        string
	entityData string
	userAgent  string
}

// NewClient builds a client from the given configuration.
func NewClient(cfg Config) *Client {
	underlying := cfg.HTTPClient
	if underlying == nil {
		underlying = http.DefaultClient
	}
	interval := cfg.RateLimit
	if interval == 0 {
		interval = DefaultRequestInterval
	}
	api := cfg.APIEndpoint
	if api == "" {
		api = DefaultAPIEndpoint
	}
	entityData := cfg.EntityDataEndpoint
	if entityData == "" {
		entityData = DefaultEntityDataEndpoint
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = entitylinker.DefaultUserAgent
	}
	return &Client{
		httpClient: NewRateLimitedHTTPClient(underlying, interval),
		cache:      NewRecordCache(cfg.CacheTTL),
		api:        api,
		entityData: entityData,
		userAgent:  userAgent,
	}
}

// Search runs a relevance-ranked full-text search over the main namespace.
func (c *Client) Search(ctx context.Context, phrase string, limit int, lang string) ([]entitylinker.SearchHit, error) {
	params := url.Values{
		"action":           {"query"},
		"format":           {"json"},
		"formatversion":    {"2"},
		"uselang":          {lang},
		"list":             {"search"},
		"srsearch":         {phrase},
		"srnamespace":      {"0"},
		"srlimit":          {strconv.Itoa(limit)},
		"srprop":           {"snippet"},
		"srenablerewrites": {"1"},
		"srsort":           {"relevance"},
	}
	var resp searchResponse
	if err := c.getJSON(ctx, c.api, params, &resp); err != nil {
		return nil, fmt.Errorf("wikidata search %q: %w", phrase, err)
	}
	results := resp.Query.Search
	if len(results) > limit {
		results = results[:limit]
	}
	hits := make([]entitylinker.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, entitylinker.SearchHit{ID: r.Title, Snippet: r.Snippet})
	}
	return hits, nil
}

// GetRecord fetches the structural record for id, consulting the cache
// first.
func (c *Client) GetRecord(ctx context.Context, id string) (*entitylinker.Record, error) {
	if rec, ok := c.cache.Get(id); ok {
		return rec, nil
	}
	var resp entitiesResponse
	if err := c.getJSON(ctx, c.entityData+"/"+url.PathEscape(id)+".json", nil, &resp); err != nil {
		return nil, fmt.Errorf("wikidata record %s: %w", id, err)
	}
	canonical := id
	data, ok := resp.Entities[id]
	if !ok || data.Missing != nil {
		// Redirected ids come back under their canonical key.
		for key, candidate := range resp.Entities {
			if candidate.Missing == nil {
				data, ok = candidate, true
				canonical = key
				break
			}
		}
		if !ok || data.Missing != nil {
			return nil, entitylinker.ErrNotFound
		}
	}
	rec := data.toRecord(canonical)
	c.cache.Set(canonical, rec)
	if canonical != id {
		// Later lookups use the id they were given, so the alias must hit
		// the cache too.
		c.cache.Set(id, rec)
	}
	return rec, nil
}

// GetExact resolves an exact page title on the given site to a record id.
func (c *Client) GetExact(ctx context.Context, title, site string) (string, error) {
	params := url.Values{
		"action": {"wbgetentities"},
		"titles": {title},
		"sites":  {site},
		"props":  {""},
		"format": {"json"},
	}
	var resp entitiesResponse
	if err := c.getJSON(ctx, c.api, params, &resp); err != nil {
		return "", fmt.Errorf("wikidata exact lookup %q: %w", title, err)
	}
	for id, data := range resp.Entities {
		if id == "-1" || data.Missing != nil {
			continue
		}
		return id, nil
	}
	return "", entitylinker.ErrNotFound
}

// IsDisambiguation reports whether the record is a disambiguation-page
// placeholder, judged by its description in lang (falling back to English).
func (c *Client) IsDisambiguation(ctx context.Context, id, lang string) (bool, error) {
	rec, err := c.GetRecord(ctx, id)
	if err != nil {
		return false, err
	}
	if desc, ok := rec.Descriptions[lang]; ok {
		return desc == disambiguationDescription, nil
	}
	return rec.Descriptions["en"] == disambiguationDescription, nil
}

// getJSON issues a GET with the configured User-Agent and decodes the JSON
// body into out. Non-2xx statuses map to ErrNotFound for 404 and an error
// otherwise.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := endpoint
	if len(params) > 0 {
		target = endpoint + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entitylinker.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
