package processor

import (
	"strings"
	"unicode"

	"digest-pipeline/internal/domain/entity"
)

// Normalize annotates and cleans up an article's metadata. It never filters;
// every input article produces exactly one output article.
func Normalize(article entity.Article, cfg NormalizerConfig) entity.Article {
	publishedAt := article.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = article.FetchTimestamp
	}
	publishedAt = publishedAt.UTC()

	title := collapseWhitespace(article.Title)
	title = truncateAtWordBoundary(title, cfg.TitleMax)
	if title == "" {
		title = "Untitled Article"
	}

	author := ""
	if trimmedAuthor := strings.TrimSpace(article.Author); trimmedAuthor != "" {
		author = truncateAtWordBoundary(titleCase(trimmedAuthor), cfg.AuthorMax)
	}

	tags := normalizeTags(article.Tags, cfg.TagMax, cfg.MaxTags)
	content := truncateAtWordBoundary(article.Content, cfg.ContentMax)

	normalized := article.With(entity.ArticleUpdate{
		Title:       &title,
		Content:     &content,
		Author:      authorPtr(author),
		Tags:        tags,
		PublishedAt: &publishedAt,
	})
	normalized.URL = entity.CanonicalURL(article.URL)
	return normalized
}

func authorPtr(author string) *string {
	return &author
}

// collapseWhitespace trims and collapses runs of whitespace into single
// spaces.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// truncateAtWordBoundary truncates s to at most maxRunes runes, backing off
// to the last word boundary rather than splitting mid-word.
func truncateAtWordBoundary(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	cut := runes[:maxRunes]
	for i := len(cut) - 1; i >= 0; i-- {
		if unicode.IsSpace(cut[i]) {
			return strings.TrimSpace(string(cut[:i]))
		}
	}
	return string(cut)
}

// titleCase upper-cases the first letter of each whitespace-delimited word
// and lower-cases the rest.
func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// normalizeTags lowercases, trims, dedups (preserving insertion order), and
// caps the tag list per cfg.
func normalizeTags(tags []string, tagMax, maxTags int) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		t = truncateAtWordBoundary(t, tagMax)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) >= maxTags {
			break
		}
	}
	return out
}
