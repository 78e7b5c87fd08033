package ytmusic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const userAgent = "vofo-music/1.0"

// ErrAPIRequest is returned when the proxy answers with a non-2xx status.
var ErrAPIRequest = errors.New("YouTube Music API request failed")

// Client is a YouTube Music catalog client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new client from the provided configuration.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.ProxyURL, "/"),
	}, nil
}

// Trending returns the song chart for a region (ISO 3166-1 alpha-2 code), in
// chart order. The full chart is returned; callers truncate as needed.
func (c *Client) Trending(ctx context.Context, region string) ([]Track, error) {
	params := url.Values{}
	if region != "" {
		params.Set("country", region)
	}

	var resp chartsResponse
	if err := c.get(ctx, "/charts", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching charts: %w", err)
	}
	return toTracks(resp.Songs.Items), nil
}

// Search returns songs matching query in catalog relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]Track, error) {
	params := url.Values{
		"q":      {query},
		"filter": {"songs"},
	}

	var resp []rawTrack
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("searching songs: %w", err)
	}
	return toTracks(resp), nil
}

// get performs a single GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
			return fmt.Errorf("%w (status %d): %s", ErrAPIRequest, resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("%w: status %d", ErrAPIRequest, resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
