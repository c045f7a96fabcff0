package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/publisher-mcp/service/vo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// decodeList decodes raw into a list, refusing anything that is not a JSON array.
func decodeList[T any](resource string, raw json.RawMessage) ([]T, error) {
	if !gjson.ParseBytes(raw).IsArray() {
		return nil, &UnexpectedResponseError{Resource: resource, Raw: raw}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return items, nil
}

// orEmpty turns a shape error into an empty list for read paths that should
// keep working with a misbehaving CMS. Transport errors are passed on.
func orEmpty[T any](items []T, err error) ([]T, error) {
	if errors.Is(err, ErrUnexpectedResponse) {
		return []T{}, nil
	}
	return items, err
}

func (s *service) warnShape(err error) {
	var shapeErr *UnexpectedResponseError
	if errors.As(err, &shapeErr) {
		s.logger.Warn("unexpected CMS response",
			zap.String("resource", shapeErr.Resource),
			zap.String("body", spew.Sdump(gjson.ParseBytes(shapeErr.Raw).Value())),
		)
	}
}

func (s *service) sites(ctx context.Context) ([]vo.Site, error) {
	raw, err := s.content.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := decodeList[vo.Site]("sites", raw)
	s.warnShape(err)
	return sites, err
}

func (s *service) findSite(ctx context.Context, slug string) (*vo.Site, error) {
	sites, err := s.sites(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sites {
		if sites[i].Slug == slug {
			return &sites[i], nil
		}
	}
	return nil, &SiteNotFoundError{Slug: slug}
}

func (s *service) categories(ctx context.Context, siteID vo.ID) ([]vo.Category, error) {
	raw, err := s.content.ListCategories(ctx, siteID)
	if err != nil {
		return nil, err
	}
	categories, err := decodeList[vo.Category]("categories", raw)
	s.warnShape(err)
	return categories, err
}

func (s *service) articles(ctx context.Context, siteID vo.ID, filter vo.ArticleFilter) ([]vo.Article, error) {
	raw, err := s.content.ListArticles(ctx, siteID, filter)
	if err != nil {
		return nil, err
	}
	articles, err := decodeList[vo.Article]("articles", raw)
	s.warnShape(err)
	return articles, err
}
