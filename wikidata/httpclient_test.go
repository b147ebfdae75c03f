package wikidata

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedHTTPClientSpacesRequests(t *testing.T) {
	mock := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	}}
	client := NewRateLimitedHTTPClient(mock, 40*time.Millisecond)
	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Do(req)
		require.NoError(t, err)
	}
	elapsed := time.Since(start)

	assert.Equal(t, 3, mock.calls)
	// Two waits of at least the interval sit between three requests.
	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
}

func TestRateLimitedHTTPClientDisabled(t *testing.T) {
	mock := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	}}
	client := NewRateLimitedHTTPClient(mock, 0)
	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := client.Do(req)
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 40*time.Millisecond)
}
