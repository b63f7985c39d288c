// Package entity defines the core domain entities and validation logic for the
// digest pipeline: the Article value type, the per-stage result envelopes,
// InterestProfile/UserConfig, and the error taxonomy shared by every
// processor and activity.
package entity

import "time"

// Article is an immutable, value-semantics representation of one feed item
// as it flows through the pipeline. Every annotation step returns a new
// Article via With rather than mutating the receiver, so an Article held by
// one activity can never be invalidated by a later one.
//
// URL is canonical from the moment the fetcher emits it (see CanonicalURL)
// and is the article's identity within a run: two Articles with equal URL
// are duplicates.
type Article struct {
	URL            string
	Title          string
	Content        string
	Author         string // empty means absent
	Tags           []string
	PublishedAt    time.Time
	FetchTimestamp time.Time

	// AITopics is nil until the topics activity has run; an empty,
	// non-nil slice means the activity ran and found nothing.
	AITopics []string
	// Summary is empty until the summarizer has run.
	Summary string

	Metadata map[string]any
}

// ArticleUpdate carries the fields With may change. A nil field leaves the
// corresponding Article field untouched; Tags/AITopics/MergeMetadata, when
// non-nil, replace/merge their targets wholesale.
type ArticleUpdate struct {
	Title         *string
	Content       *string
	Author        *string
	Tags          []string
	PublishedAt   *time.Time
	AITopics      []string
	Summary       *string
	MergeMetadata map[string]any
}

// With returns a new Article reflecting upd, leaving the receiver untouched.
func (a Article) With(upd ArticleUpdate) Article {
	out := a
	out.Tags = append([]string(nil), a.Tags...)
	if a.AITopics != nil {
		out.AITopics = append([]string(nil), a.AITopics...)
	}
	out.Metadata = cloneMetadata(a.Metadata)

	if upd.Title != nil {
		out.Title = *upd.Title
	}
	if upd.Content != nil {
		out.Content = *upd.Content
	}
	if upd.Author != nil {
		out.Author = *upd.Author
	}
	if upd.Tags != nil {
		out.Tags = append([]string(nil), upd.Tags...)
	}
	if upd.PublishedAt != nil {
		out.PublishedAt = upd.PublishedAt.UTC()
	}
	if upd.AITopics != nil {
		out.AITopics = append([]string(nil), upd.AITopics...)
	}
	if upd.Summary != nil {
		out.Summary = *upd.Summary
	}
	for k, v := range upd.MergeMetadata {
		out.Metadata[k] = v
	}
	return out
}

func cloneMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MetaFloat64 reads a float64 metadata annotation, returning ok=false when
// the key is absent or holds a value of a different type.
func (a Article) MetaFloat64(key string) (float64, bool) {
	v, ok := a.Metadata[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// QualityScore returns the quality_score metadata annotation written by the
// quality processor, or 0 if it has not run yet.
func (a Article) QualityScore() float64 {
	f, _ := a.MetaFloat64("quality_score")
	return f
}
