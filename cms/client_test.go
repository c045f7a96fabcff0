package cms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foomo/publisher-mcp/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", APIKey: "secret"}, server.Client(), nil)
}

func TestListSites(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sites", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(APIKeyHeader))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Outdoor", "slug": "outdoor", "domain": "outdoor.example"}]`)
	})

	raw, err := client.ListSites(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1, "name": "Outdoor", "slug": "outdoor", "domain": "outdoor.example"}]`, string(raw))
}

func TestListArticlesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("site_id"))
		assert.Equal(t, "published", r.URL.Query().Get("status"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.ListArticles(context.Background(), vo.NumericID(7), vo.ArticleFilter{Status: vo.StatusPublished, Limit: 20})
	require.NoError(t, err)
}

func TestCreateArticle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello", payload["slug"])
		assert.Nil(t, payload["category_id"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 99, "slug": "hello"}`)
	})

	raw, err := client.CreateArticle(context.Background(), vo.ArticlePayload{
		SiteID: vo.NumericID(1),
		Title:  "Hello",
		Slug:   "hello",
		Tags:   []string{},
		Status: vo.StatusPublished,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 99, "slug": "hello"}`, string(raw))
}

func TestNon2xxIsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	})

	_, err := client.ListSites(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid key")
}

func TestInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway</html>`)
	})

	_, err := client.ListSites(context.Background())
	require.Error(t, err)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(Config{BaseURL: server.URL}, nil, nil)

	_, err := client.ListSites(context.Background())
	require.Error(t, err)
}
