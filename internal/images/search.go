package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// SearchClient queries the keyed external image-search API used by the
// image backfill job. Rate limiting is enforced by the API itself.
type SearchClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

// NewSearchClient creates a search client. Returns nil when no endpoint or
// key is configured; callers treat a nil client as "no search available".
func NewSearchClient(endpoint, apiKey string, timeout time.Duration, log zerolog.Logger) *SearchClient {
	if endpoint == "" || apiKey == "" {
		return nil
	}
	return &SearchClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		log:      log.With().Str("component", "image_search").Logger(),
	}
}

// searchResponse mirrors the API's result envelope
type searchResponse struct {
	Hits []struct {
		LargeImageURL string `json:"largeImageURL"`
		WebformatURL  string `json:"webformatURL"`
	} `json:"hits"`
}

// FindImageURL returns the first image URL for the query, or "" when the
// API has no match. Transport and decode failures are returned as errors;
// callers fall back to the gradient either way.
func (c *SearchClient) FindImageURL(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("per_page", "3")
	params.Set("safesearch", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(body.Hits) == 0 {
		c.log.Debug().Str("query", query).Msg("No image results")
		return "", nil
	}
	if body.Hits[0].LargeImageURL != "" {
		return body.Hits[0].LargeImageURL, nil
	}
	return body.Hits[0].WebformatURL, nil
}
