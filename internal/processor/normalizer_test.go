package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"digest-pipeline/internal/domain/entity"
)

func TestNormalize_FillsPublishedAtFromFetchTimestamp(t *testing.T) {
	fetchTime := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	a := entity.Article{URL: "https://example.com/x", Title: "t", Content: "c", FetchTimestamp: fetchTime}

	out := Normalize(a, DefaultNormalizerConfig())
	assert.Equal(t, fetchTime, out.PublishedAt)
}

func TestNormalize_ConvertsPublishedAtToUTC(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	published := time.Date(2026, 1, 2, 12, 0, 0, 0, loc)
	a := entity.Article{URL: "https://example.com/x", Title: "t", Content: "c", PublishedAt: published}

	out := Normalize(a, DefaultNormalizerConfig())
	assert.Equal(t, time.UTC, out.PublishedAt.Location())
	assert.True(t, published.Equal(out.PublishedAt))
}

func TestNormalize_EmptyTitleBecomesUntitled(t *testing.T) {
	a := entity.Article{URL: "https://example.com/x", Title: "   ", Content: "c"}
	out := Normalize(a, DefaultNormalizerConfig())
	assert.Equal(t, "Untitled Article", out.Title)
}

func TestNormalize_CollapsesTitleWhitespaceAndTruncates(t *testing.T) {
	cfg := DefaultNormalizerConfig()
	cfg.TitleMax = 10
	a := entity.Article{URL: "https://example.com/x", Title: "hello    world  foo", Content: "c"}
	out := Normalize(a, cfg)
	assert.LessOrEqual(t, len([]rune(out.Title)), 10)
	assert.NotContains(t, out.Title, "  ")
}

func TestNormalize_AuthorTitleCasedTrimmedTruncated(t *testing.T) {
	a := entity.Article{URL: "https://example.com/x", Title: "t", Content: "c", Author: "  jane DOE  "}
	out := Normalize(a, DefaultNormalizerConfig())
	assert.Equal(t, "Jane Doe", out.Author)
}

func TestNormalize_TagsLowercasedDedupedCapped(t *testing.T) {
	cfg := DefaultNormalizerConfig()
	cfg.MaxTags = 2
	a := entity.Article{URL: "https://example.com/x", Title: "t", Content: "c", Tags: []string{"Go", "go", "Backend", "Extra"}}
	out := Normalize(a, cfg)
	assert.Equal(t, []string{"go", "backend"}, out.Tags)
}

func TestNormalize_URLCanonicalized(t *testing.T) {
	a := entity.Article{URL: "HTTP://Example.com/x?utm_source=foo#frag", Title: "t", Content: "c"}
	out := Normalize(a, DefaultNormalizerConfig())
	assert.Equal(t, "https://example.com/x", out.URL)
}

func TestNormalize_ContentTruncatedAtWordBoundary(t *testing.T) {
	cfg := DefaultNormalizerConfig()
	cfg.ContentMax = 12
	a := entity.Article{URL: "https://example.com/x", Title: "t", Content: "one two three four"}
	out := Normalize(a, cfg)
	assert.LessOrEqual(t, len([]rune(out.Content)), 12)
}

func TestTruncateAtWordBoundary_NoTruncationNeeded(t *testing.T) {
	assert.Equal(t, "short", truncateAtWordBoundary("short", 100))
}
