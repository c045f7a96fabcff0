package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foomo/publisher-mcp/service/vo"
	"go.uber.org/zap"
)

var ErrMissingAPIKey = errors.New("PEXELS_API_KEY not configured")

type Config struct {
	BaseURL string
	APIKey  string
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Pexels search failed with status %d: %s", e.StatusCode, e.Body)
}

type photo struct {
	ID           vo.ID  `json:"id"`
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	Photographer string `json:"photographer"`
	Src          struct {
		Original string `json:"original"`
		Large2x  string `json:"large2x"`
		Large    string `json:"large"`
		Medium   string `json:"medium"`
	} `json:"src"`
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

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

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.config.APIKey != ""
}

// SearchImages returns up to count photos for query.
func (c *Client) SearchImages(ctx context.Context, query string, count int) ([]vo.ImageResult, error) {
	if c.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("pexels search", zap.String("query", query), zap.Int("count", count))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Pexels: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Pexels response: %w", err)
	}

	images := make([]vo.ImageResult, 0, len(result.Photos))
	for _, p := range result.Photos {
		alt := p.Alt
		if alt == "" {
			alt = query
		}
		images = append(images, vo.ImageResult{
			ID:           p.ID,
			URL:          firstNonEmpty(p.Src.Large2x, p.Src.Large, p.Src.Original, p.Src.Medium),
			Alt:          alt,
			Photographer: p.Photographer,
			PexelsURL:    p.URL,
		})
	}
	return images, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
