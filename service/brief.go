package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/foomo/publisher-mcp/service/vo"
)

const (
	briefTitleLimit    = 50
	briefFocusLimit    = 3
	uncategorizedLabel = "Uncategorized"
)

func (s *service) ContentBrief(ctx context.Context, site string, count int) (*vo.ContentBrief, error) {
	target, err := s.findSite(ctx, site)
	if err != nil {
		return nil, err
	}
	categories, err := orEmpty(s.categories(ctx, target.ID))
	if err != nil {
		return nil, err
	}
	articles, err := orEmpty(s.articles(ctx, target.ID, vo.ArticleFilter{}))
	if err != nil {
		return nil, err
	}

	namesByID := make(map[string]string, len(categories))
	for _, c := range categories {
		namesByID[c.ID.String()] = c.Name
	}

	distribution := map[string]int{}
	titles := make([]string, 0, min(len(articles), briefTitleLimit))
	for _, a := range articles {
		distribution[articleCategory(a, namesByID)]++
		if len(titles) < briefTitleLimit {
			titles = append(titles, a.Title)
		}
	}

	coverage := make([]vo.CategoryCoverage, 0, len(categories))
	for _, c := range categories {
		coverage = append(coverage, vo.CategoryCoverage{
			Name:         c.Name,
			Slug:         c.Slug,
			ArticleCount: distribution[c.Name],
		})
	}

	return &vo.ContentBrief{
		Site:                target.Name,
		TotalArticles:       len(articles),
		Categories:          coverage,
		ExistingTitles:      titles,
		ContentDistribution: distribution,
		Suggestion:          suggestion(target.Name, count, coverage),
	}, nil
}

func articleCategory(a vo.Article, namesByID map[string]string) string {
	if name := a.CategoryName(); name != "" {
		return name
	}
	if !a.CategoryID.IsZero() {
		if name, ok := namesByID[a.CategoryID.String()]; ok && name != "" {
			return name
		}
	}
	return uncategorizedLabel
}

// suggestion points the writer at the least covered categories.
func suggestion(siteName string, count int, coverage []vo.CategoryCoverage) string {
	if len(coverage) == 0 {
		return fmt.Sprintf("Write %d new articles for %s to establish category coverage.", count, siteName)
	}
	sorted := make([]vo.CategoryCoverage, len(coverage))
	copy(sorted, coverage)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ArticleCount < sorted[j].ArticleCount
	})
	names := make([]string, 0, briefFocusLimit)
	for _, c := range sorted[:min(len(sorted), briefFocusLimit)] {
		names = append(names, fmt.Sprintf("%s (%d)", c.Name, c.ArticleCount))
	}
	return fmt.Sprintf("Write %d new articles for %s. Focus on underrepresented categories: %s.",
		count, siteName, strings.Join(names, ", "))
}
