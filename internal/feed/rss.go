package feed

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/observability/metrics"
	"digest-pipeline/internal/resilience/circuitbreaker"
	"digest-pipeline/internal/resilience/retry"
)

// FetchResult is the output of one source fetch attempt.
type FetchResult struct {
	SourceID       string
	SourceURL      string
	Articles       []entity.Article
	FetchTimestamp time.Time
	Success        bool
	Error          string
}

// RSSFetcher fetches and parses RSS 2.0 / Atom 1.0 feeds into entity.Article
// batches, auto-detecting the feed dialect via gofeed.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         FetchConfig
	enhancer       *ContentEnhancer
}

// NewRSSFetcher builds an RSSFetcher from the given configuration. The HTTP
// client's per-request timeout matches cfg.Timeout. Retries on transient
// fetch errors follow retry.FeedFetchConfig(), the spec's fixed retry class
// for fetch_sources_parallel.
func NewRSSFetcher(cfg FetchConfig) *RSSFetcher {
	return &RSSFetcher{
		client:         &http.Client{Timeout: cfg.Timeout},
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		config:         cfg,
		enhancer:       NewContentEnhancer(cfg.ContentEnhancement),
	}
}

// Fetch retrieves and parses a feed, returning a FetchResult. Malformed
// URLs are non-retryable and returned with Success=false immediately;
// transient network/HTTP errors go through the exponential-backoff retry of
// retry.FeedFetchConfig() and the
// circuit breaker before being reported the same way. Fetch never returns
// a non-nil error for feed-level failures — those are captured on the
// result, per the fetcher's error propagation policy.
func (f *RSSFetcher) Fetch(ctx context.Context, sourceID, feedURL string, now time.Time) FetchResult {
	result := FetchResult{
		SourceID:       sourceID,
		SourceURL:      feedURL,
		FetchTimestamp: now,
	}

	if err := validateURL(feedURL, true); err != nil {
		result.Error = err.Error()
		return result
	}

	var items []*gofeed.Item
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("source_id", sourceID),
					slog.String("url", feedURL))
				return err
			}
			return err
		}
		items = cbResult.([]*gofeed.Item)
		return nil
	})

	if retryErr != nil {
		result.Error = retryErr.Error()
		return result
	}

	result.Articles = itemsToArticles(items, now, f.config.MaxArticlesPerFeed)
	f.enhanceShortArticles(ctx, result.Articles)
	result.Success = true
	return result
}

// enhanceShortArticles replaces thin RSS/Atom content with full-article text
// extracted from the article's own page, for any article whose content falls
// below the enhancer's configured threshold. Enhancement is best-effort: a
// fetch or extraction failure leaves the original RSS/Atom content in place
// rather than failing the batch.
func (f *RSSFetcher) enhanceShortArticles(ctx context.Context, articles []entity.Article) {
	for i := range articles {
		if !f.enhancer.ShouldEnhance(articles[i].Content) {
			continue
		}
		start := time.Now()
		content, err := f.enhancer.FetchContent(ctx, articles[i].URL)
		if err != nil {
			slog.Warn("content enhancement failed, keeping feed content",
				slog.String("url", articles[i].URL),
				slog.Any("error", err))
			metrics.RecordContentEnhancement("failed", time.Since(start))
			continue
		}
		if len(content) > len(articles[i].Content) {
			articles[i].Content = content
			metrics.RecordContentEnhancement("enhanced", time.Since(start))
		} else {
			metrics.RecordContentEnhancement("skipped_too_short", time.Since(start))
		}
	}
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.config.UserAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}
	return feed.Items, nil
}

// itemsToArticles converts parsed feed items into entity.Article, tolerating
// malformed individual items (skipped with a warning rather than failing the
// whole fetch), and hard-capping the result at maxArticles.
func itemsToArticles(items []*gofeed.Item, fetchTimestamp time.Time, maxArticles int) []entity.Article {
	articles := make([]entity.Article, 0, len(items))
	for _, it := range items {
		if it == nil || strings.TrimSpace(it.Link) == "" {
			slog.Warn("skipping malformed feed item: missing link")
			continue
		}
		if len(articles) >= maxArticles {
			break
		}

		content := it.Content
		if strings.TrimSpace(content) == "" {
			content = it.Description
		}

		article := entity.Article{
			URL:            entity.CanonicalURL(it.Link),
			Title:          cleanText(it.Title),
			Content:        cleanText(content),
			Tags:           extractTags(it),
			FetchTimestamp: fetchTimestamp,
		}
		if author := extractAuthor(it); author != "" {
			article.Author = author
		}
		if it.PublishedParsed != nil {
			article.PublishedAt = *it.PublishedParsed
		}

		articles = append(articles, article)
	}
	return articles
}

func extractAuthor(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return it.Author.Name
	}
	if len(it.Authors) > 0 && it.Authors[0].Name != "" {
		return it.Authors[0].Name
	}
	return ""
}

func extractTags(it *gofeed.Item) []string {
	if len(it.Categories) == 0 {
		return nil
	}
	tags := make([]string, 0, len(it.Categories))
	tags = append(tags, it.Categories...)
	return tags
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanText strips HTML tags, decodes entities, and collapses whitespace,
// per the fetcher's per-item extraction contract.
func cleanText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	stripped := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		if text := doc.Text(); strings.TrimSpace(text) != "" {
			stripped = text
		}
	}

	decoded := html.UnescapeString(stripped)
	collapsed := whitespaceRun.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(collapsed)
}
