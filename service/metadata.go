package service

import (
	"context"
	"strings"

	"github.com/foomo/publisher-mcp/seo"
	"github.com/foomo/publisher-mcp/service/vo"
	"go.uber.org/zap"
)

const relatedArticleLimit = 5

func (s *service) EnrichLinks(content, tag string) vo.EnrichResult {
	enriched, changed := seo.EnrichAffiliateLinks(content, s.affiliateTag(tag))
	return vo.EnrichResult{Content: enriched, LinksEnriched: changed}
}

func (s *service) SEOMetadata(ctx context.Context, req vo.SEORequest) (*vo.SEOMetadata, error) {
	slug := seo.Slugify(req.Title)
	meta := seo.MetaDescription(req.Content)

	publisher := s.defaults.Publisher
	links := []vo.InternalLink{}
	if req.Site != "" {
		publisher = req.Site
		site, err := s.findSite(ctx, req.Site)
		if err != nil {
			s.logger.Warn("skipping internal links", zap.String("site", req.Site), zap.Error(err))
		} else {
			publisher = site.Name
			links = s.internalLinks(ctx, site, req.Title, slug)
		}
	}

	return &vo.SEOMetadata{
		Slug:            slug,
		MetaDescription: meta,
		SchemaMarkup: seo.NewSchemaMarkup(seo.SchemaInput{
			Title:           req.Title,
			MetaDescription: meta,
			Image:           req.FeaturedImage,
			Author:          s.author(req.Author),
			SiteName:        publisher,
		}, s.now()),
		SuggestedInternalLinks: links,
	}, nil
}

// internalLinks suggests published articles of site related to title.
// Lookup failures only cost the suggestions.
func (s *service) internalLinks(ctx context.Context, site *vo.Site, title, slug string) []vo.InternalLink {
	links := []vo.InternalLink{}
	articles, err := s.articles(ctx, site.ID, vo.ArticleFilter{Status: vo.StatusPublished})
	if err != nil {
		s.logger.Warn("failed to fetch related articles", zap.String("site", site.Slug), zap.Error(err))
		return links
	}

	candidates := make([]seo.Candidate, 0, len(articles))
	for _, a := range articles {
		candidates = append(candidates, seo.Candidate{Title: a.Title, Slug: a.Slug})
	}
	for _, c := range seo.RelatedArticles(title, slug, candidates, relatedArticleLimit) {
		links = append(links, vo.InternalLink{
			Title: c.Title,
			Slug:  c.Slug,
			URL:   articleURL(site.Domain, c.Slug),
		})
	}
	return links
}

func articleURL(domain, slug string) string {
	if domain == "" {
		return ""
	}
	domain = strings.TrimRight(domain, "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return domain + "/" + slug
}

func (s *service) PreviewArticle(req vo.PreviewRequest) (*vo.ArticlePreview, error) {
	preview, err := seo.RenderPreview(seo.PreviewInput{
		Title:        req.Title,
		Content:      req.Content,
		AffiliateTag: s.affiliateTag(req.AffiliateTag),
	})
	if err != nil {
		return nil, err
	}
	return &vo.ArticlePreview{
		Slug:               preview.Slug,
		MetaDescription:    preview.MetaDescription,
		HTML:               preview.HTML,
		WordCount:          preview.WordCount,
		ReadingTimeMinutes: preview.ReadingTimeMinutes,
		Links:              preview.Links,
		AffiliateLinks:     preview.AffiliateLinks,
		LinksEnriched:      preview.LinksEnriched,
		Document:           preview.Document,
	}, nil
}

func (s *service) SourceImages(ctx context.Context, query string, count int) ([]vo.ImageResult, error) {
	if s.images == nil || !s.images.Enabled() {
		return nil, ErrImagesNotConfigured
	}
	images, err := s.images.SearchImages(ctx, query, count)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []vo.ImageResult{}
	}
	return images, nil
}
