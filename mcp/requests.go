package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/foomo/publisher-mcp/service/vo"
)

var ErrInvalidArguments = errors.New("invalid arguments")

const (
	defaultImageCount   = 3
	defaultBriefCount   = 5
	defaultArticleLimit = 50
)

func invalidArgument(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, a...))
}

func required(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"site", "query", "title", "content"} {
		if value, ok := fields[name]; ok && strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return invalidArgument("%s is required", strings.Join(missing, ", "))
	}
	return nil
}

type SourceImagesRequest struct {
	Query string `json:"query"` // Search phrase
	Count int    `json:"count"` // Number of images, defaults to 3
}

func (r *SourceImagesRequest) Validate() error {
	if err := required(map[string]string{"query": r.Query}); err != nil {
		return err
	}
	if r.Count < 0 {
		return invalidArgument("count must not be negative")
	}
	if r.Count == 0 {
		r.Count = defaultImageCount
	}
	return nil
}

type EnrichLinksRequest struct {
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

func (r *EnrichLinksRequest) Validate() error {
	if r.Content == "" {
		return invalidArgument("content is required")
	}
	return nil
}

type SEOMetadataRequest vo.SEORequest

func (r *SEOMetadataRequest) Validate() error {
	return required(map[string]string{"title": r.Title, "content": r.Content})
}

type PublishArticleRequest vo.PublishRequest

func (r *PublishArticleRequest) Validate() error {
	if err := required(map[string]string{"site": r.Site, "title": r.Title, "content": r.Content}); err != nil {
		return err
	}
	return validStatus(r.Status)
}

type SiteRequest struct {
	Site string `json:"site"`
}

func (r *SiteRequest) Validate() error {
	return required(map[string]string{"site": r.Site})
}

type ContentBriefRequest struct {
	Site  string `json:"site"`
	Count int    `json:"count"` // Number of articles to plan, defaults to 5
}

func (r *ContentBriefRequest) Validate() error {
	if err := required(map[string]string{"site": r.Site}); err != nil {
		return err
	}
	if r.Count < 0 {
		return invalidArgument("count must not be negative")
	}
	if r.Count == 0 {
		r.Count = defaultBriefCount
	}
	return nil
}

type BatchPublishRequest struct {
	Site     string            `json:"site"`
	Articles []vo.BatchArticle `json:"articles"`
}

func (r *BatchPublishRequest) Validate() error {
	if err := required(map[string]string{"site": r.Site}); err != nil {
		return err
	}
	if r.Articles == nil {
		return invalidArgument("articles is required")
	}
	for i, a := range r.Articles {
		if err := validStatus(a.Status); err != nil {
			return fmt.Errorf("articles[%d]: %w", i, err)
		}
	}
	return nil
}

type GetExistingArticlesRequest struct {
	Site  string `json:"site"`
	Limit int    `json:"limit"` // Defaults to 50
}

func (r *GetExistingArticlesRequest) Validate() error {
	if err := required(map[string]string{"site": r.Site}); err != nil {
		return err
	}
	if r.Limit < 0 {
		return invalidArgument("limit must not be negative")
	}
	if r.Limit == 0 {
		r.Limit = defaultArticleLimit
	}
	return nil
}

type PreviewArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

func (r *PreviewArticleRequest) Validate() error {
	return required(map[string]string{"title": r.Title, "content": r.Content})
}

func validStatus(status vo.Status) error {
	if status != "" && !status.Valid() {
		return invalidArgument("status must be %q or %q", vo.StatusDraft, vo.StatusPublished)
	}
	return nil
}
