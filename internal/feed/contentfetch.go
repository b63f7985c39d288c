package feed

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"

	"digest-pipeline/internal/resilience/circuitbreaker"
	"digest-pipeline/internal/resilience/retry"
)

// ContentEnhancer optionally fetches the full article page and extracts
// readable text via Mozilla's Readability algorithm, for use when RSS/Atom
// content is too short to summarize well.
type ContentEnhancer struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ContentFetchConfig
}

// NewContentEnhancer builds a ContentEnhancer from the given config.
func NewContentEnhancer(cfg ContentFetchConfig) *ContentEnhancer {
	enhancer := &ContentEnhancer{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retryConfig:    retry.ContentFetchConfig(),
		config:         cfg,
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= enhancer.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), enhancer.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	enhancer.client = client
	return enhancer
}

// ShouldEnhance reports whether rssContent is short enough to warrant a
// full-article fetch, per the enhancer's configured threshold.
func (e *ContentEnhancer) ShouldEnhance(rssContent string) bool {
	return e.config.Enabled && len(rssContent) < e.config.Threshold
}

// FetchContent fetches articleURL and extracts clean article text. Callers
// should use the result only if it is longer than the RSS/Atom content it
// would replace, and fall back to the original content on any error.
func (e *ContentEnhancer) FetchContent(ctx context.Context, articleURL string) (string, error) {
	if err := validateURL(articleURL, e.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	var content string
	retryErr := retry.WithBackoff(ctx, e.retryConfig, func() error {
		cbResult, err := e.circuitBreaker.Execute(func() (interface{}, error) {
			return e.doFetch(ctx, articleURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("content-fetch circuit breaker open, request rejected",
					slog.String("url", articleURL))
				return err
			}
			return err
		}
		content = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", retryErr
	}
	return content, nil
}

func (e *ContentEnhancer) doFetch(ctx context.Context, articleURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "DigestPipelineBot/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, e.config.Timeout)
		}
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	limited := io.LimitReader(resp.Body, e.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > e.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ErrBodyTooLarge, len(htmlBytes), e.config.MaxBodySize)
	}

	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		parsedURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		parsedURL = resp.Request.URL
	}

	htmlReader := io.NopCloser(bytes.NewReader(htmlBytes))
	article, err := readability.FromReader(htmlReader, parsedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	if article.TextContent != "" {
		return article.TextContent, nil
	}
	if article.Content != "" {
		return article.Content, nil
	}
	return "", fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
}
