// Package assemble filters, sorts, and renders the final digest from the
// similarity detector's groups, per spec §4.6.
package assemble

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"digest-pipeline/internal/domain/entity"
)

// FilterGroups drops groups whose primary fails its relevance threshold,
// then drops any remaining failing members from the surviving groups —
// dropping the group entirely if that empties it. relevance is keyed by
// article URL.
func FilterGroups(groups []entity.ArticleGroup, relevance map[string]entity.RelevanceResult) []entity.ArticleGroup {
	out := make([]entity.ArticleGroup, 0, len(groups))
	for _, g := range groups {
		if !relevance[g.Primary.URL].PassesThreshold {
			continue
		}

		members := make([]entity.Article, 0, len(g.Members))
		for _, m := range g.Members {
			if relevance[m.URL].PassesThreshold {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			continue
		}

		g.Members = members
		out = append(out, g)
	}
	return out
}

// SortGroups orders groups by the primary's final relevance score
// descending, tie-breaking on quality descending then published_at
// descending.
func SortGroups(groups []entity.ArticleGroup, relevance map[string]entity.RelevanceResult) []entity.ArticleGroup {
	out := append([]entity.ArticleGroup(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Primary, out[j].Primary
		ra, rb := relevance[a.URL].RelevanceScore, relevance[b.URL].RelevanceScore
		if ra != rb {
			return ra > rb
		}
		qa, qb := a.QualityScore(), b.QualityScore()
		if qa != qb {
			return qa > qb
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
	return out
}

// Assemble builds the final DigestPayload: filter, sort, render HTML and
// text bodies. userTZ is the user's timezone, used to render Date; now is
// the run's stamped timestamp, never read from the wall clock here.
func Assemble(userID, email, userTZ string, groups []entity.ArticleGroup, relevance map[string]entity.RelevanceResult, now time.Time) (entity.DigestPayload, error) {
	start := time.Now()

	filtered := FilterGroups(groups, relevance)
	sorted := SortGroups(filtered, relevance)

	loc, err := time.LoadLocation(userTZ)
	if err != nil {
		loc = time.UTC
	}
	localNow := now.In(loc)

	data := renderData{
		Groups:      make([]groupView, 0, len(sorted)),
		Date:        localNow.Format("Monday, January 2, 2006"),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}

	totalArticles := 0
	for _, g := range sorted {
		totalArticles += len(g.Members)
		related := make([]string, 0, len(g.Members)-1)
		for _, m := range g.Members {
			if m.URL != g.Primary.URL {
				related = append(related, m.Title)
			}
		}
		data.Groups = append(data.Groups, groupView{
			PrimaryTitle:     g.Primary.Title,
			PrimaryURL:       g.Primary.URL,
			PrimaryAuthor:    g.Primary.Author,
			PrimarySummary:   g.Primary.Summary,
			PrimaryPublished: g.Primary.PublishedAt.Format("Jan 2, 2006"),
			AggregatedTopics: g.AggregatedTopics,
			RelatedCount:     len(related),
			RelatedTitles:    related,
		})
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlDigest.Execute(&htmlBuf, data); err != nil {
		return entity.DigestPayload{}, fmt.Errorf("render html digest: %w", err)
	}
	if err := textDigest.Execute(&textBuf, data); err != nil {
		return entity.DigestPayload{}, fmt.Errorf("render text digest: %w", err)
	}

	return entity.DigestPayload{
		UserID:              userID,
		Email:               email,
		GenerationTimestamp: now,
		HTMLBody:            htmlBuf.String(),
		TextBody:            textBuf.String(),
		GroupsSummary:       sorted,
		Metadata: entity.DigestMetadata{
			TotalGroups:   len(sorted),
			TotalArticles: totalArticles,
			HTMLSize:      htmlBuf.Len(),
			TextSize:      textBuf.Len(),
			AssemblyMS:    time.Since(start).Milliseconds(),
		},
	}, nil
}
