package service

import (
	"context"

	"github.com/foomo/publisher-mcp/service/vo"
)

// GetExistingArticles lists up to limit articles of site. A listing of the
// wrong shape is reported as *UnexpectedResponseError carrying the body.
func (s *service) GetExistingArticles(ctx context.Context, site string, limit int) ([]vo.ArticleSummary, error) {
	target, err := s.findSite(ctx, site)
	if err != nil {
		return nil, err
	}
	articles, err := s.articles(ctx, target.ID, vo.ArticleFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	summaries := make([]vo.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, vo.ArticleSummary{
			ID:       a.ID,
			Title:    a.Title,
			Slug:     a.Slug,
			Category: a.CategoryName(),
			Status:   a.Status,
			Created:  a.CreatedAt,
		})
	}
	return summaries, nil
}
