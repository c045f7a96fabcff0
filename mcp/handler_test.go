package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/foomo/publisher-mcp/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeTool(t *testing.T, d *Dispatcher, name string, args any) *mcp.CallToolResult {
	t.Helper()
	handler := mcp.NewTypedToolHandler(toolHandler(d, name))
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	server := NewServer(NewDispatcher(&stubService{}, nil), nil)
	require.NotNil(t, server)
}

func TestToolHandlerResult(t *testing.T) {
	d := NewDispatcher(&stubService{}, nil)

	result := invokeTool(t, d, ToolContentBrief, map[string]any{"site": "trail-notes", "count": 2})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"site": "trail-notes"`)
}

func TestToolHandlerMissingArgument(t *testing.T) {
	d := NewDispatcher(&stubService{}, nil)

	result := invokeTool(t, d, ToolPublishArticle, map[string]any{"title": "T", "content": "C"})
	assert.True(t, result.IsError)
	assert.JSONEq(t, `{"error": "invalid arguments: site is required"}`, resultText(t, result))
}

func TestToolHandlerUpstreamError(t *testing.T) {
	d := NewDispatcher(&stubService{err: errors.New("CMS GET /api/sites failed with status 500: boom")}, nil)

	result := invokeTool(t, d, ToolListSites, nil)
	assert.True(t, result.IsError)
	assert.JSONEq(t, `{"error": "CMS GET /api/sites failed with status 500: boom"}`, resultText(t, result))
}

func TestToolHandlerUnknownSiteIsPlainResult(t *testing.T) {
	d := NewDispatcher(&stubService{err: fmt.Errorf("lookup: %w", &service.SiteNotFoundError{Slug: "nope"})}, nil)

	result := invokeTool(t, d, ToolContentBrief, map[string]any{"site": "nope"})
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"error": "Site \"nope\" not found"}`, resultText(t, result))
}

func TestCallResult(t *testing.T) {
	result := CallResult(map[string]int{"published": 2}, nil)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"published": 2}`, resultText(t, result))

	result = CallResult(nil, errors.New("boom"))
	assert.True(t, result.IsError)
	assert.JSONEq(t, `{"error": "boom"}`, resultText(t, result))

	result = CallResult(make(chan int), nil)
	assert.True(t, result.IsError)
}

func TestToolsDeclareRequiredArguments(t *testing.T) {
	required := map[string][]string{}
	for _, tool := range Tools() {
		required[tool.Name] = tool.InputSchema.Required
	}
	assert.Empty(t, required[ToolListSites])
	assert.Equal(t, []string{"query"}, required[ToolSourceImages])
	assert.Equal(t, []string{"site", "title", "content"}, required[ToolPublishArticle])
	assert.Equal(t, []string{"site", "articles"}, required[ToolBatchPublish])
	assert.Equal(t, []string{"title", "content"}, required[ToolSEOMetadata])
}
