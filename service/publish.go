package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foomo/publisher-mcp/seo"
	"github.com/foomo/publisher-mcp/service/vo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// categoryCache maps lower-cased category names to ids for one site.
type categoryCache map[string]vo.ID

type createdArticle struct {
	ID   vo.ID  `json:"id"`
	Slug string `json:"slug"`
}

func (s *service) PublishArticle(ctx context.Context, req vo.PublishRequest) (*vo.PublishResult, error) {
	site, err := s.findSite(ctx, req.Site)
	if err != nil {
		return nil, err
	}

	raw, created, err := s.publish(ctx, site, req, categoryCache{})
	if err != nil {
		return nil, err
	}

	s.notify("article_published", map[string]any{
		"site":  site.Slug,
		"title": req.Title,
		"id":    created.ID,
		"slug":  created.Slug,
	})
	return &vo.PublishResult{Success: true, Article: raw}, nil
}

func (s *service) BatchPublish(ctx context.Context, site string, articles []vo.BatchArticle) (*vo.BatchResult, error) {
	target, err := s.findSite(ctx, site)
	if err != nil {
		return nil, err
	}

	result := &vo.BatchResult{Results: make([]vo.BatchItemResult, 0, len(articles))}
	cache := categoryCache{}
	for _, article := range articles {
		_, created, err := s.publish(ctx, target, article.PublishRequest(site), cache)
		if err != nil {
			s.logger.Warn("batch item failed",
				zap.String("site", site),
				zap.String("title", article.Title),
				zap.Error(err),
			)
			result.Failed++
			result.Results = append(result.Results, vo.BatchItemResult{
				Title:   article.Title,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		result.Published++
		item := vo.BatchItemResult{
			Title:   article.Title,
			Success: true,
			Slug:    created.Slug,
		}
		if !created.ID.IsZero() {
			id := created.ID
			item.ID = &id
		}
		result.Results = append(result.Results, item)
	}

	s.notify("batch_completed", map[string]any{
		"site":      target.Slug,
		"published": result.Published,
		"failed":    result.Failed,
	})
	return result, nil
}

// publish prepares req with the SEO toolkit and creates it on site.
func (s *service) publish(ctx context.Context, site *vo.Site, req vo.PublishRequest, cache categoryCache) (json.RawMessage, createdArticle, error) {
	var created createdArticle
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, created, ErrMissingArticleContent
	}

	slug := seo.Slugify(req.Title)
	meta := req.MetaDescription
	if meta == "" {
		meta = seo.MetaDescription(req.Content)
	}
	content, _ := seo.EnrichAffiliateLinks(req.Content, s.affiliateTag(req.AffiliateTag))

	categoryID, err := s.resolveCategory(ctx, site.ID, req.Category, cache)
	if err != nil {
		return nil, created, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := s.content.CreateArticle(ctx, vo.ArticlePayload{
		SiteID:          site.ID,
		Title:           req.Title,
		Slug:            slug,
		Content:         content,
		CategoryID:      categoryID,
		Tags:            tags,
		MetaDescription: meta,
		FeaturedImage:   req.FeaturedImage,
		Author:          s.author(req.Author),
		Status:          s.status(req.Status),
	})
	if err != nil {
		return nil, created, fmt.Errorf("failed to create article: %w", err)
	}

	created.Slug = slug
	if gjson.ParseBytes(raw).IsObject() {
		if err := json.Unmarshal(raw, &created); err != nil {
			s.logger.Warn("failed to decode created article", zap.Error(err))
		}
		if created.Slug == "" {
			created.Slug = slug
		}
	}
	return raw, created, nil
}

// resolveCategory finds the category named name on the site, matching
// case-insensitively, and creates it when missing. An empty name means the
// article is uncategorised.
func (s *service) resolveCategory(ctx context.Context, siteID vo.ID, name string, cache categoryCache) (*vo.ID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return &id, nil
	}

	categories, err := s.categories(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			cache[key] = c.ID
			id := c.ID
			return &id, nil
		}
	}

	raw, err := s.content.CreateCategory(ctx, vo.CategoryPayload{
		SiteID: siteID,
		Name:   name,
		Slug:   seo.Slugify(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	var category vo.Category
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, &UnexpectedResponseError{Resource: "category", Raw: raw}
	}
	if err := json.Unmarshal(raw, &category); err != nil || category.ID.IsZero() {
		return nil, &UnexpectedResponseError{Resource: "category", Raw: raw}
	}
	s.logger.Info("created category",
		zap.String("name", name),
		zap.String("id", category.ID.String()),
	)
	cache[key] = category.ID
	id := category.ID
	return &id, nil
}
