package processor

import (
	"context"
	"sort"
	"strings"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/domain/entity"
)

type similarityVerdict struct {
	SimScore  float64 `json:"sim_score"`
	Reasoning string  `json:"reasoning"`
}

const similaritySystemPrompt = `You judge how similar in topic two articles are, on a 0-1 scale where 1 means they cover the same story. Respond with JSON only: {"sim_score": 0-1, "reasoning": string}.`

// PairwiseSimilarity makes one AI call comparing two articles and returns
// the similarity score and the model's reasoning. Titles and content are
// truncated before prompting. Callers are responsible for cache lookups —
// this function always calls the provider.
func PairwiseSimilarity(ctx context.Context, a, b entity.Article, provider aiprovider.Provider) (float64, string, error) {
	verdict, err := aiprovider.RunStructured[similarityVerdict](ctx, provider, similaritySystemPrompt, similarityUserPrompt(a, b))
	if err != nil {
		return 0, "", err
	}
	return clampFloat(verdict.SimScore, 0, 1), verdict.Reasoning, nil
}

func similarityUserPrompt(a, b entity.Article) string {
	var sb strings.Builder
	sb.WriteString("Article A title: ")
	sb.WriteString(a.Title)
	sb.WriteString("\nArticle A content: ")
	sb.WriteString(excerpt(a.Content, 800))
	sb.WriteString("\nArticle B title: ")
	sb.WriteString(b.Title)
	sb.WriteString("\nArticle B content: ")
	sb.WriteString(excerpt(b.Content, 800))
	return sb.String()
}

// SortedURLPair returns (url1, url2) in ascending order so pairwise cache
// keys and iteration order are stable regardless of input order.
func SortedURLPair(urlA, urlB string) (string, string) {
	if urlA <= urlB {
		return urlA, urlB
	}
	return urlB, urlA
}

// SortedPairs enumerates every unordered pair of articles in deterministic
// (sorted url pair) order, per the similarity detector's iteration contract.
func SortedPairs(articles []entity.Article) [][2]string {
	urls := make([]string, len(articles))
	for i, a := range articles {
		urls[i] = a.URL
	}
	sort.Strings(urls)

	pairs := make([][2]string, 0, len(urls)*(len(urls)-1)/2)
	for i := 0; i < len(urls); i++ {
		for j := i + 1; j < len(urls); j++ {
			pairs = append(pairs, [2]string{urls[i], urls[j]})
		}
	}
	return pairs
}

// BuildGroups computes connected components over articles using edge to
// test whether two urls are linked (sim_score >= threshold), and selects
// each group's primary member by (relevance desc, quality desc,
// published_at desc). relevanceScore is consulted by url; articles absent
// from it are treated as relevance 0.
func BuildGroups(articles []entity.Article, edge func(urlA, urlB string) bool, relevanceScore map[string]float64) []entity.ArticleGroup {
	n := len(articles)
	indexByURL := make(map[string]int, n)
	for i, a := range articles {
		indexByURL[a.URL] = i
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, pair := range SortedPairs(articles) {
		i, okI := indexByURL[pair[0]]
		j, okJ := indexByURL[pair[1]]
		if !okI || !okJ {
			continue
		}
		if edge(pair[0], pair[1]) {
			union(i, j)
		}
	}

	membersByRoot := make(map[int][]int)
	for i := range articles {
		root := find(i)
		membersByRoot[root] = append(membersByRoot[root], i)
	}

	roots := make([]int, 0, len(membersByRoot))
	for root := range membersByRoot {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	groups := make([]entity.ArticleGroup, 0, len(roots))
	for _, root := range roots {
		memberIdx := membersByRoot[root]
		members := make([]entity.Article, len(memberIdx))
		for i, idx := range memberIdx {
			members[i] = articles[idx]
		}
		groups = append(groups, entity.ArticleGroup{
			Members:          members,
			AggregatedTopics: aggregatedTopics(members),
			Primary:          pickPrimary(members, relevanceScore),
		})
	}
	return groups
}

func pickPrimary(members []entity.Article, relevanceScore map[string]float64) entity.Article {
	best := members[0]
	bestRelevance := relevanceScore[best.URL]
	bestQuality := best.QualityScore()

	for _, m := range members[1:] {
		relevance := relevanceScore[m.URL]
		quality := m.QualityScore()

		switch {
		case relevance > bestRelevance:
			best, bestRelevance, bestQuality = m, relevance, quality
		case relevance == bestRelevance && quality > bestQuality:
			best, bestRelevance, bestQuality = m, relevance, quality
		case relevance == bestRelevance && quality == bestQuality && m.PublishedAt.After(best.PublishedAt):
			best, bestRelevance, bestQuality = m, relevance, quality
		}
	}
	return best
}

func aggregatedTopics(members []entity.Article) []string {
	seen := make(map[string]struct{})
	for _, m := range members {
		for _, t := range m.AITopics {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
