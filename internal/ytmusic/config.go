// Package ytmusic provides a YouTube Music catalog client for trending charts and search.
//
// Requests go to a ytmusicapi-compatible HTTP proxy, which handles the
// YouTube Music session on its side.
package ytmusic

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrMissingProxyURL is returned when no proxy URL is configured.
var ErrMissingProxyURL = errors.New("missing YouTube Music proxy URL")

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 10 * time.Second

// Config holds YouTube Music proxy configuration.
type Config struct {
	ProxyURL string
	Timeout  time.Duration
}

// Validate checks that the proxy URL is an absolute http(s) URL.
func (c *Config) Validate() error {
	if c.ProxyURL == "" {
		return ErrMissingProxyURL
	}
	u, err := url.Parse(c.ProxyURL)
	if err != nil {
		return fmt.Errorf("parsing proxy URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("proxy URL %q must be an absolute http(s) URL", c.ProxyURL)
	}
	return nil
}
