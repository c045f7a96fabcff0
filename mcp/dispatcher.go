package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/foomo/publisher-mcp/service"
	"github.com/foomo/publisher-mcp/service/vo"
	"go.uber.org/zap"
)

const (
	ToolListSites           = "list_sites"
	ToolSourceImages        = "source_images"
	ToolEnrichLinks         = "enrich_links"
	ToolSEOMetadata         = "seo_metadata"
	ToolPublishArticle      = "publish_article"
	ToolContentBrief        = "content_brief"
	ToolPortfolioStats      = "portfolio_stats"
	ToolBatchPublish        = "batch_publish"
	ToolGetExistingArticles = "get_existing_articles"
	ToolPreviewArticle      = "preview_article"
)

type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher routes tool calls by name to the service. Structured outcomes
// such as an unknown site are results, failures are returned as errors.
type Dispatcher struct {
	service service.Service
	logger  *zap.Logger
	tools   map[string]toolFunc
}

func NewDispatcher(svc service.Service, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		service: svc,
		logger:  logger,
	}
	d.tools = map[string]toolFunc{
		ToolListSites:           d.listSites,
		ToolSourceImages:        d.sourceImages,
		ToolEnrichLinks:         d.enrichLinks,
		ToolSEOMetadata:         d.seoMetadata,
		ToolPublishArticle:      d.publishArticle,
		ToolContentBrief:        d.contentBrief,
		ToolPortfolioStats:      d.portfolioStats,
		ToolBatchPublish:        d.batchPublish,
		ToolGetExistingArticles: d.getExistingArticles,
		ToolPreviewArticle:      d.previewArticle,
	}
	return d
}

// Tools returns the names of all dispatchable tools, sorted.
func (d *Dispatcher) Tools() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) Has(name string) bool {
	_, ok := d.tools[name]
	return ok
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := d.tools[name]
	if !ok {
		d.logger.Warn("unknown tool", zap.String("tool", name))
		return vo.ErrorResult{Error: "Unknown tool: " + name}, nil
	}

	start := time.Now()
	result, err := tool(ctx, args)
	if err != nil {
		d.logger.Warn("tool call failed",
			zap.String("tool", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	d.logger.Debug("tool call", zap.String("tool", name), zap.Duration("duration", time.Since(start)))
	return result, nil
}

type validator interface {
	Validate() error
}

func decode[T any, P interface {
	*T
	validator
}](args json.RawMessage) (*T, error) {
	req := new(T)
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, req); err != nil {
			return nil, invalidArgument("%v", err)
		}
	}
	if err := P(req).Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// siteNotFound converts an unknown site into the {error} result.
func siteNotFound(err error) (any, bool) {
	var notFound *service.SiteNotFoundError
	if errors.As(err, &notFound) {
		return vo.ErrorResult{Error: notFound.Error()}, true
	}
	return nil, false
}

func (d *Dispatcher) listSites(ctx context.Context, _ json.RawMessage) (any, error) {
	sites, err := d.service.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func (d *Dispatcher) sourceImages(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := decode[SourceImagesRequest](args)
	if err != nil {
		return nil, err
	}
	images, err := d.service.SourceImages(ctx, req.Query, req.Count)
	if errors.Is(err, service.ErrImagesNotConfigured) {
		return vo.ImageSearchError{Error: err.Error(), Images: []vo.ImageResult{}}, nil
	} else if err != nil {
		return nil, err
	}
	return images, nil
}

func (d *Dispatcher) enrichLinks(_ context.Context, args json.RawMessage) (any, error) {
	req, err := decode[EnrichLinksRequest](args)
	if err != nil {
		return nil, err
	}
	return d.service.EnrichLinks(req.Content, req.Tag), nil
}

func (d *Dispatcher) seoMetadata(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := decode[SEOMetadataRequest](args)
	if err != nil {
		return nil, err
	}
	metadata, err := d.service.SEOMetadata(ctx, vo.SEORequest(*req))
	if err != nil {
		return nil, err
	}
	return metadata, nil
}

func (d *Dispatcher) publishArticle(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := decode[PublishArticleRequest](args)
	if err != nil {
		return nil, err
	}
	result, err := d.service.PublishArticle(ctx, vo.PublishRequest(*req))
	if res, ok := siteNotFound(err); ok {
		return res, nil
	} else if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) contentBrief(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := decode[ContentBriefRequest](args)
	if err != nil {
		return nil, err
	}
	brief, err := d.service.ContentBrief(ctx, req.Site, req.Count)
	if res, ok := siteNotFound(err); ok {
		return res, nil
	} else if err != nil {
		return nil, err
	}
	return brief, nil
}

func (d *Dispatcher) portfolioStats(ctx context.Context, _ json.RawMessage) (any, error) {
	stats, err := d.service.PortfolioStats(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (d *Dispatcher) batchPublish(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := decode[BatchPublishRequest](args)
	if err != nil {
		return nil, err
	}
	result, err := d.service.BatchPublish(ctx, req.Site, req.Articles)
	if res, ok := siteNotFound(err); ok {
		return res, nil
	} else if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) getExistingArticles(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := decode[GetExistingArticlesRequest](args)
	if err != nil {
		return nil, err
	}
	articles, err := d.service.GetExistingArticles(ctx, req.Site, req.Limit)
	if res, ok := siteNotFound(err); ok {
		return res, nil
	}
	var shapeErr *service.UnexpectedResponseError
	if errors.As(err, &shapeErr) && shapeErr.Resource == "articles" {
		return vo.ErrorResult{Error: "Failed to fetch articles", Raw: shapeErr.Raw}, nil
	}
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (d *Dispatcher) previewArticle(_ context.Context, args json.RawMessage) (any, error) {
	req, err := decode[PreviewArticleRequest](args)
	if err != nil {
		return nil, err
	}
	preview, err := d.service.PreviewArticle(vo.PreviewRequest{
		Title:        req.Title,
		Content:      req.Content,
		AffiliateTag: req.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return preview, nil
}
