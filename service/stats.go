package service

import (
	"context"

	"github.com/foomo/publisher-mcp/service/vo"
)

func (s *service) PortfolioStats(ctx context.Context) (*vo.PortfolioStats, error) {
	sites, err := orEmpty(s.sites(ctx))
	if err != nil {
		return nil, err
	}

	stats := &vo.PortfolioStats{
		TotalSites: len(sites),
		Sites:      make([]vo.SiteStats, 0, len(sites)),
	}
	for _, site := range sites {
		articles, err := orEmpty(s.articles(ctx, site.ID, vo.ArticleFilter{}))
		if err != nil {
			return nil, err
		}
		entry := vo.SiteStats{
			Name:   site.Name,
			Slug:   site.Slug,
			Domain: site.Domain,
			Total:  len(articles),
		}
		for _, a := range articles {
			switch a.Status {
			case vo.StatusPublished:
				entry.Published++
			case vo.StatusDraft:
				entry.Drafts++
			}
		}
		stats.TotalArticles += entry.Total
		stats.TotalPublished += entry.Published
		stats.Sites = append(stats.Sites, entry)
	}
	return stats, nil
}
