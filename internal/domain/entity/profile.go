package entity

import (
	"sort"
	"strings"
)

// SummaryStyle selects the summarizer's system prompt and output shape.
type SummaryStyle string

const (
	SummaryStyleBrief        SummaryStyle = "brief"
	SummaryStyleDetailed     SummaryStyle = "detailed"
	SummaryStyleBulletPoints SummaryStyle = "bullet_points"
)

const (
	maxKeywords               = 50
	defaultRelevanceThreshold = 40
	defaultBoostFactor        = 1.0
	minBoostFactor            = 0.5
	maxBoostFactor            = 2.0
)

// InterestProfile is the read-only per-user input to the relevance scorer.
// Keywords are normalized (lowercase, deduped, capped) by NewInterestProfile
// so every downstream consumer sees the same canonical form.
type InterestProfile struct {
	Keywords           []string
	RelevanceThreshold int
	BoostFactor        float64
	SummaryStyle       SummaryStyle
}

// NewInterestProfile builds an InterestProfile applying the defaults and
// normalization rules: keywords lowercased, deduped, order-preserving,
// capped at maxKeywords; threshold defaults to 40; boost factor defaults to
// 1.0 and is clamped to [0.5, 2.0].
func NewInterestProfile(keywords []string, threshold int, boost float64, style SummaryStyle) InterestProfile {
	p := InterestProfile{
		Keywords:           normalizeKeywords(keywords),
		RelevanceThreshold: defaultRelevanceThreshold,
		BoostFactor:        defaultBoostFactor,
		SummaryStyle:       style,
	}
	if threshold > 0 {
		p.RelevanceThreshold = threshold
	}
	if boost != 0 {
		p.BoostFactor = clampBoost(boost)
	}
	if p.SummaryStyle == "" {
		p.SummaryStyle = SummaryStyleBrief
	}
	return p
}

func clampBoost(b float64) float64 {
	if b < minBoostFactor {
		return minBoostFactor
	}
	if b > maxBoostFactor {
		return maxBoostFactor
	}
	return b
}

func normalizeKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, kw := range in {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) >= maxKeywords {
			break
		}
	}
	return out
}

// SortedKeywords returns a copy of Keywords in ascending order, used by the
// relevance activity's profile fingerprint (see cache key derivation).
func (p InterestProfile) SortedKeywords() []string {
	out := append([]string(nil), p.Keywords...)
	sort.Strings(out)
	return out
}
