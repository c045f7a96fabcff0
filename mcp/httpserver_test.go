package mcp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAccessKey = "s3cret"

func newTestHTTPServer(t *testing.T, svc *stubService, config HTTPConfig) *HTTPServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	dispatcher := NewDispatcher(svc, logger)
	events := NewEventHub(logger, nil)
	t.Cleanup(events.Close)
	return NewHTTPServer(logger, NewServer(dispatcher, logger), dispatcher, events, config)
}

func serve(h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsOpen(t *testing.T) {
	h := newTestHTTPServer(t, &stubService{}, HTTPConfig{AccessKey: testAccessKey, RateLimitPerHour: 10})

	rec := serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthRequired(t *testing.T) {
	h := newTestHTTPServer(t, &stubService{}, HTTPConfig{AccessKey: testAccessKey, RateLimitPerHour: 100})

	tests := []struct {
		name   string
		target string
		header map[string]string
		want   int
	}{
		{name: "no key", target: "/tools", want: http.StatusUnauthorized},
		{name: "wrong key", target: "/tools", header: map[string]string{"x-api-key": "nope"}, want: http.StatusUnauthorized},
		{name: "header", target: "/tools", header: map[string]string{"x-api-key": testAccessKey}, want: http.StatusOK},
		{name: "bearer", target: "/tools", header: map[string]string{"Authorization": "Bearer " + testAccessKey}, want: http.StatusOK},
		{name: "query", target: "/tools?api_key=" + testAccessKey, want: http.StatusOK},
		{name: "event stats", target: "/events/stats", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.target, "", tt.header)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error": "Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestAuthDisabledWithoutKey(t *testing.T) {
	h := newTestHTTPServer(t, &stubService{}, HTTPConfig{RateLimitPerHour: 100})

	rec := serve(h, http.MethodGet, "/tools", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Tools, 10)
}

func TestRateLimit(t *testing.T) {
	h := newTestHTTPServer(t, &stubService{}, HTTPConfig{AccessKey: testAccessKey, RateLimitPerHour: 2})
	key := map[string]string{"x-api-key": testAccessKey}

	rec := serve(h, http.MethodGet, "/tools", "", key)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get(headerRateLimit))
	assert.Equal(t, "1", rec.Header().Get(headerRateRemaining))
	assert.NotEmpty(t, rec.Header().Get(headerRateReset))

	rec = serve(h, http.MethodGet, "/tools", "", key)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(headerRateRemaining))

	rec = serve(h, http.MethodGet, "/tools", "", key)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"error":"Rate limit exceeded"`)

	// health is not counted
	rec = serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitRejectedAuthIsNotCounted(t *testing.T) {
	h := newTestHTTPServer(t, &stubService{}, HTTPConfig{AccessKey: testAccessKey, RateLimitPerHour: 1})

	for i := 0; i < 3; i++ {
		rec := serve(h, http.MethodGet, "/tools", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := serve(h, http.MethodGet, "/tools", "", map[string]string{"x-api-key": testAccessKey})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCallToolEndpoint(t *testing.T) {
	svc := &stubService{}
	h := newTestHTTPServer(t, svc, HTTPConfig{RateLimitPerHour: 100})

	rec := serve(h, http.MethodPost, "/tools/content_brief", `{"site": "trail-notes"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"site": "trail-notes", "total_articles": 0, "categories": null,
		"existing_titles": null, "content_distribution": null, "suggestion": ""
	}`, rec.Body.String())
	assert.Equal(t, 5, svc.lastCount)

	rec = serve(h, http.MethodPost, "/tools/publish_article", `{"title": "T"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "site, content is required")

	rec = serve(h, http.MethodPost, "/tools/drop_tables", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Unknown tool: drop_tables"}`, rec.Body.String())

	rec = serve(h, http.MethodPost, "/tools/list_sites", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}

func TestCallToolEndpointUpstreamError(t *testing.T) {
	h := newTestHTTPServer(t, &stubService{err: errors.New("CMS unreachable")}, HTTPConfig{RateLimitPerHour: 100})

	rec := serve(h, http.MethodPost, "/tools/portfolio_stats", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error": "CMS unreachable"}`, rec.Body.String())
}
