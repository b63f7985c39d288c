// Package feed fetches and parses RSS/Atom sources into entity.Article
// batches, with optional full-article content enhancement.
package feed

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// FetchConfig holds configuration for RSS/Atom feed fetching.
// Defaults follow the spec's declared configuration block. Retry/backoff
// behavior on transient fetch errors is not configurable here — it follows
// retry.FeedFetchConfig(), the same as every other per-activity retry class.
type FetchConfig struct {
	// Timeout bounds a single feed HTTP fetch.
	Timeout time.Duration

	// MaxArticlesPerFeed hard-caps the number of items kept from one feed.
	MaxArticlesPerFeed int

	// UserAgent is sent on every feed HTTP request.
	UserAgent string

	// ContentEnhancement controls optional full-article content fetching.
	ContentEnhancement ContentFetchConfig
}

// ContentFetchConfig controls the optional readability-based content
// enhancement step: when RSS/Atom content is shorter than Threshold, the
// fetcher retrieves the article page and extracts readable text.
type ContentFetchConfig struct {
	Enabled        bool
	Threshold      int
	Timeout        time.Duration
	MaxBodySize    int64
	MaxRedirects   int
	DenyPrivateIPs bool
}

// DefaultFetchConfig returns the spec's default fetching configuration.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:            30 * time.Second,
		MaxArticlesPerFeed: 100,
		UserAgent:          "DigestPipelineBot/1.0",
		ContentEnhancement: ContentFetchConfig{
			Enabled:        true,
			Threshold:      1500,
			Timeout:        10 * time.Second,
			MaxBodySize:    10 * 1024 * 1024,
			MaxRedirects:   5,
			DenyPrivateIPs: true,
		},
	}
}

// Validate checks that the configuration values are sane.
func (c FetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxArticlesPerFeed <= 0 {
		return fmt.Errorf("max articles per feed must be positive, got %d", c.MaxArticlesPerFeed)
	}
	if c.ContentEnhancement.Threshold < 0 {
		return fmt.Errorf("content enhancement threshold must be non-negative, got %d", c.ContentEnhancement.Threshold)
	}
	if c.ContentEnhancement.Timeout <= 0 {
		return fmt.Errorf("content enhancement timeout must be positive, got %v", c.ContentEnhancement.Timeout)
	}
	if c.ContentEnhancement.MaxBodySize < 1024 || c.ContentEnhancement.MaxBodySize > 100*1024*1024 {
		return fmt.Errorf("content enhancement max body size out of range, got %d", c.ContentEnhancement.MaxBodySize)
	}
	if c.ContentEnhancement.MaxRedirects < 0 || c.ContentEnhancement.MaxRedirects > 10 {
		return fmt.Errorf("content enhancement max redirects out of range, got %d", c.ContentEnhancement.MaxRedirects)
	}
	return nil
}

// LoadFetchConfigFromEnv loads FetchConfig from environment variables,
// falling back to defaults for anything unset. The loaded config is
// validated before being returned.
//
// Environment variables:
//   - FETCH_TIMEOUT_S, FETCH_MAX_ARTICLES_PER_FEED, FETCH_USER_AGENT
//   - CONTENT_FETCH_ENABLED, CONTENT_FETCH_THRESHOLD, CONTENT_FETCH_TIMEOUT_S,
//     CONTENT_FETCH_MAX_BODY_SIZE, CONTENT_FETCH_MAX_REDIRECTS,
//     CONTENT_FETCH_DENY_PRIVATE_IPS
func LoadFetchConfigFromEnv() (FetchConfig, error) {
	cfg := DefaultFetchConfig()

	if v := os.Getenv("FETCH_TIMEOUT_S"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT_S: %w", err)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("FETCH_MAX_ARTICLES_PER_FEED"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_ARTICLES_PER_FEED: %w", err)
		}
		cfg.MaxArticlesPerFeed = n
	}

	if v := os.Getenv("FETCH_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	if v := os.Getenv("CONTENT_FETCH_ENABLED"); v != "" {
		cfg.ContentEnhancement.Enabled = v == "true"
	}

	if v := os.Getenv("CONTENT_FETCH_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_THRESHOLD: %w", err)
		}
		cfg.ContentEnhancement.Threshold = n
	}

	if v := os.Getenv("CONTENT_FETCH_TIMEOUT_S"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT_S: %w", err)
		}
		cfg.ContentEnhancement.Timeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("CONTENT_FETCH_MAX_BODY_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_BODY_SIZE: %w", err)
		}
		cfg.ContentEnhancement.MaxBodySize = n
	}

	if v := os.Getenv("CONTENT_FETCH_MAX_REDIRECTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_REDIRECTS: %w", err)
		}
		cfg.ContentEnhancement.MaxRedirects = n
	}

	if v := os.Getenv("CONTENT_FETCH_DENY_PRIVATE_IPS"); v != "" {
		cfg.ContentEnhancement.DenyPrivateIPs = v == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("fetch configuration invalid: %w", err)
	}
	return cfg, nil
}
