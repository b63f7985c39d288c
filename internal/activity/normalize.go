package activity

import (
	"time"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/processor"
)

// NormalizeOutcome is NormalizeArticlesBatch's output.
type NormalizeOutcome struct {
	Articles []entity.Article
	BatchResult
}

// NormalizeArticlesBatch applies the field-normalization rules to every
// article. Normalization is pure and deterministic so it is never cached or
// counted as an AI call; it cannot fail per article.
func NormalizeArticlesBatch(articles []entity.Article, cfg processor.NormalizerConfig) NormalizeOutcome {
	out := NormalizeOutcome{
		Articles:    make([]entity.Article, 0, len(articles)),
		BatchResult: newBatchResult(time.Now()),
	}
	for _, article := range articles {
		out.Articles = append(out.Articles, processor.Normalize(article, cfg))
	}
	out.finish(time.Now())
	return out
}
