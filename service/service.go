package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/foomo/publisher-mcp/service/vo"
	"go.uber.org/zap"
)

// Service implements the content pipeline operations exposed as tools.
type Service interface {
	ListSites(ctx context.Context) ([]vo.SiteListing, error)
	SourceImages(ctx context.Context, query string, count int) ([]vo.ImageResult, error)
	EnrichLinks(content, tag string) vo.EnrichResult
	SEOMetadata(ctx context.Context, req vo.SEORequest) (*vo.SEOMetadata, error)
	PublishArticle(ctx context.Context, req vo.PublishRequest) (*vo.PublishResult, error)
	ContentBrief(ctx context.Context, site string, count int) (*vo.ContentBrief, error)
	PortfolioStats(ctx context.Context) (*vo.PortfolioStats, error)
	BatchPublish(ctx context.Context, site string, articles []vo.BatchArticle) (*vo.BatchResult, error)
	GetExistingArticles(ctx context.Context, site string, limit int) ([]vo.ArticleSummary, error)
	PreviewArticle(req vo.PreviewRequest) (*vo.ArticlePreview, error)
}

// ContentAPI is the subset of the CMS the service depends on. Responses are
// raw JSON, the service checks their shape before use.
type ContentAPI interface {
	ListSites(ctx context.Context) (json.RawMessage, error)
	ListCategories(ctx context.Context, siteID vo.ID) (json.RawMessage, error)
	ListArticles(ctx context.Context, siteID vo.ID, filter vo.ArticleFilter) (json.RawMessage, error)
	CreateCategory(ctx context.Context, payload vo.CategoryPayload) (json.RawMessage, error)
	CreateArticle(ctx context.Context, payload vo.ArticlePayload) (json.RawMessage, error)
}

type ImageSearcher interface {
	Enabled() bool
	SearchImages(ctx context.Context, query string, count int) ([]vo.ImageResult, error)
}

// Notifier receives pipeline events, e.g. to stream them to dashboards.
type Notifier interface {
	Notify(event string, data any)
}

// Defaults are applied whenever a caller leaves the matching field empty.
type Defaults struct {
	Author       string
	Status       vo.Status
	AffiliateTag string
	Publisher    string // Schema publisher name when no site is given
}

func DefaultDefaults() Defaults {
	return Defaults{
		Author:       "Editorial Team",
		Status:       vo.StatusPublished,
		AffiliateTag: "editorial-20",
		Publisher:    "Editorial Team",
	}
}

type Option func(*service)

func WithNotifier(notifier Notifier) Option {
	return func(s *service) {
		s.notifier = notifier
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	content  ContentAPI
	images   ImageSearcher
	defaults Defaults
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(content ContentAPI, images ImageSearcher, defaults Defaults, opts ...Option) Service {
	s := &service{
		content:  content,
		images:   images,
		defaults: defaults,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *service) notify(event string, data any) {
	if s.notifier != nil {
		s.notifier.Notify(event, data)
	}
}

func (s *service) author(author string) string {
	if author != "" {
		return author
	}
	return s.defaults.Author
}

func (s *service) status(status vo.Status) vo.Status {
	if status != "" {
		return status
	}
	return s.defaults.Status
}

func (s *service) affiliateTag(tag string) string {
	if tag != "" {
		return tag
	}
	return s.defaults.AffiliateTag
}
