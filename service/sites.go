package service

import (
	"context"

	"github.com/foomo/publisher-mcp/service/vo"
)

func (s *service) ListSites(ctx context.Context) ([]vo.SiteListing, error) {
	sites, err := orEmpty(s.sites(ctx))
	if err != nil {
		return nil, err
	}

	listings := make([]vo.SiteListing, 0, len(sites))
	for _, site := range sites {
		categories, err := orEmpty(s.categories(ctx, site.ID))
		if err != nil {
			return nil, err
		}
		summaries := make([]vo.CategorySummary, 0, len(categories))
		for _, c := range categories {
			summaries = append(summaries, vo.CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug})
		}
		listings = append(listings, vo.SiteListing{
			ID:         site.ID,
			Name:       site.Name,
			Slug:       site.Slug,
			Domain:     site.Domain,
			Categories: summaries,
		})
	}
	return listings, nil
}
