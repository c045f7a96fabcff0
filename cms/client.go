package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foomo/publisher-mcp/service/vo"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const APIKeyHeader = "x-api-key"

type Config struct {
	BaseURL string
	APIKey  string
}

// APIError is returned for any non-2xx answer of the CMS.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CMS %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the content management API. Response bodies are handed
// back untouched, interpreting them is up to the caller.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(config Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) ListSites(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/sites", nil, nil)
}

func (c *Client) ListCategories(ctx context.Context, siteID vo.ID) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("site_id", siteID.String())
	return c.doRequest(ctx, http.MethodGet, "/api/categories", query, nil)
}

func (c *Client) ListArticles(ctx context.Context, siteID vo.ID, filter vo.ArticleFilter) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("site_id", siteID.String())
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/api/articles", query, nil)
}

func (c *Client) CreateCategory(ctx context.Context, payload vo.CategoryPayload) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/api/categories", nil, payload)
}

func (c *Client) CreateArticle(ctx context.Context, payload vo.ArticlePayload) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/api/articles", nil, payload)
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set(APIKeyHeader, c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("requestID", requestID),
	)
	logger.Debug("cms request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("cms request failed", zap.Error(err))
		return nil, fmt.Errorf("failed to call CMS %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("cms response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(respData)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respData)),
		}
	}

	if len(bytes.TrimSpace(respData)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !gjson.ValidBytes(respData) {
		return nil, fmt.Errorf("invalid JSON in CMS response to %s %s", method, path)
	}
	return json.RawMessage(respData), nil
}
